package controllers

import (
	"net/http"

	"github.com/gfmachado/autorevenda/app/jobs"
	"github.com/gfmachado/autorevenda/pkg/bind"
	"github.com/gfmachado/autorevenda/pkg/logger"
	"github.com/gfmachado/autorevenda/pkg/queue"
	"github.com/gfmachado/autorevenda/pkg/response"
)

// ContactController receives the storefront contact form and queues the
// mail to the dealer. The caller gets a 200 as soon as the job is queued;
// delivery retries happen in the background.
type ContactController struct{}

func NewContactController() *ContactController {
	return &ContactController{}
}

type contactInput struct {
	Name    string `json:"name" validate:"required,max=150"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"nullable,max=30"`
	Subject string `json:"subject" validate:"required,max=150"`
	Message string `json:"message" validate:"required,max=5000"`
}

func (c *ContactController) Send(w http.ResponseWriter, r *http.Request) {
	var body contactInput
	errs, err := bind.JSON(r, &body)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Todos os campos são obrigatórios.")
		return
	}
	if len(errs) > 0 {
		response.Error(w, http.StatusBadRequest, "Todos os campos são obrigatórios.")
		return
	}

	job := &jobs.ContactMail{
		FromName:  body.Name,
		FromEmail: body.Email,
		Phone:     body.Phone,
		Subject:   body.Subject,
		Message:   body.Message,
	}
	if err := queue.Dispatch(job); err != nil {
		logger.WithCtx(r.Context()).Error("contact mail dispatch failed", "error", err)
		response.Error(w, http.StatusInternalServerError,
			"Não foi possível enviar a mensagem. Tente novamente mais tarde.")
		return
	}

	response.OK(w, map[string]string{"message": "Mensagem enviada com sucesso!"})
}
