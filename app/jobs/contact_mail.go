// Package jobs defines the queued background jobs. Each job carries its
// full payload so a redis-backed worker can run it without touching the
// database.
package jobs

import (
	"fmt"
	"html"
	"strings"

	"github.com/gfmachado/autorevenda/config"
	"github.com/gfmachado/autorevenda/pkg/mail"
	"github.com/gfmachado/autorevenda/pkg/queue"
)

// ContactMailName is the queue registration key for ContactMail.
const ContactMailName = "jobs.ContactMail"

// ContactMail forwards a storefront contact-form message to the dealer.
type ContactMail struct {
	FromName  string `json:"fromName"`
	FromEmail string `json:"fromEmail"`
	Phone     string `json:"phone"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
}

func (j *ContactMail) Name() string { return ContactMailName }

func (j *ContactMail) Handle() error {
	phone := j.Phone
	if phone == "" {
		phone = "Não informado"
	}

	body := fmt.Sprintf(`
<h1>Nova Mensagem de Contato</h1>
<p>Você recebeu uma nova mensagem através do site.</p>
<hr>
<p><strong>Nome:</strong> %s</p>
<p><strong>Email:</strong> %s</p>
<p><strong>Telefone:</strong> %s</p>
<hr>
<h2>%s</h2>
<p>%s</p>`,
		html.EscapeString(j.FromName),
		html.EscapeString(j.FromEmail),
		html.EscapeString(phone),
		html.EscapeString(j.Subject),
		strings.ReplaceAll(html.EscapeString(j.Message), "\n", "<br>"),
	)

	return mail.To(config.AdminMail()).
		ReplyTo(j.FromEmail).
		Subject("Novo Contato: " + j.Subject).
		Body(body).
		Send()
}

// Register wires all job types into the queue registry. Call once at boot.
func Register() {
	queue.Register(ContactMailName, func() queue.Job { return &ContactMail{} })
	queue.Register(PurchaseRequestMailName, func() queue.Job { return &PurchaseRequestMail{} })
}
