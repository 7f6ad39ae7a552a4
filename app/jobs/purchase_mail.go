package jobs

import (
	"fmt"
	"html"

	"github.com/gfmachado/autorevenda/app/models"
	"github.com/gfmachado/autorevenda/config"
	"github.com/gfmachado/autorevenda/pkg/mail"
)

// PurchaseRequestMailName is the queue registration key for
// PurchaseRequestMail.
const PurchaseRequestMailName = "jobs.PurchaseRequestMail"

// PurchaseRequestMail tells the dealer a customer wants to buy a vehicle.
// The controller resolves customer and vehicle before dispatch, so the
// payload is self-contained.
type PurchaseRequestMail struct {
	CustomerName    string  `json:"customerName"`
	CustomerEmail   string  `json:"customerEmail"`
	CustomerPhone   string  `json:"customerPhone"`
	CustomerAddress string  `json:"customerAddress"`
	VehicleID       uint    `json:"vehicleId"`
	VehicleTitle    string  `json:"vehicleTitle"`
	VehiclePrice    float64 `json:"vehiclePrice"`
}

func (j *PurchaseRequestMail) Name() string { return PurchaseRequestMailName }

func (j *PurchaseRequestMail) Handle() error {
	phone := j.CustomerPhone
	if phone == "" {
		phone = "Não informado"
	}
	address := j.CustomerAddress
	if address == "" {
		address = "Não informado"
	}

	body := fmt.Sprintf(`
<h1>Nova Solicitação de Compra</h1>
<p>O cliente <strong>%s</strong> demonstrou interesse formal na compra do seguinte veículo:</p>
<hr>
<h2>Detalhes do Veículo</h2>
<p><strong>ID:</strong> %d</p>
<p><strong>Título:</strong> %s</p>
<p><strong>Preço:</strong> %s</p>
<hr>
<h2>Dados do Cliente</h2>
<p><strong>Nome:</strong> %s</p>
<p><strong>Email:</strong> %s</p>
<p><strong>Telefone:</strong> %s</p>
<p><strong>Endereço:</strong> %s</p>
<hr>
<p><em>Por favor, entre em contato com o cliente para prosseguir com a negociação.</em></p>`,
		html.EscapeString(j.CustomerName),
		j.VehicleID,
		html.EscapeString(j.VehicleTitle),
		models.FormatBRL(j.VehiclePrice),
		html.EscapeString(j.CustomerName),
		html.EscapeString(j.CustomerEmail),
		html.EscapeString(phone),
		html.EscapeString(address),
	)

	subject := fmt.Sprintf("Solicitação de Compra - Veículo #%d (%s)", j.VehicleID, j.VehicleTitle)

	return mail.To(config.AdminMail()).
		ReplyTo(j.CustomerEmail).
		Subject(subject).
		Body(body).
		Send()
}
