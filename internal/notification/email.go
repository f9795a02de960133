package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// DefaultDisplayName is used when the payer's profile has no display name.
const DefaultDisplayName = "Cliente"

// PaymentConfirmation carries everything the confirmation email template needs
type PaymentConfirmation struct {
	Email      string
	Name       string
	Plan       string
	AmountPaid decimal.Decimal
	ExpiresAt  time.Time
}

// Sender dispatches payment confirmation messages. Implementations must be
// safe to fail: callers treat every error as best effort.
type Sender interface {
	SendPaymentConfirmation(ctx context.Context, confirmation *PaymentConfirmation) error
}

// EmailSender sends confirmation emails over SMTP
type EmailSender struct {
	smtpHost     string
	smtpPort     int
	smtpUsername string
	smtpPassword string
	fromAddress  string
	logger       *zap.Logger
}

// NewEmailSender creates a new EmailSender
func NewEmailSender(smtpHost string, smtpPort int, smtpUsername, smtpPassword, fromAddress string, logger *zap.Logger) *EmailSender {
	return &EmailSender{
		smtpHost:     smtpHost,
		smtpPort:     smtpPort,
		smtpUsername: smtpUsername,
		smtpPassword: smtpPassword,
		fromAddress:  fromAddress,
		logger:       logger,
	}
}

// SendPaymentConfirmation sends the payment confirmation email
func (s *EmailSender) SendPaymentConfirmation(ctx context.Context, confirmation *PaymentConfirmation) error {
	if confirmation.Name == "" {
		confirmation.Name = DefaultDisplayName
	}

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.fromAddress, "VitaFit"))
	m.SetHeader("To", confirmation.Email)
	m.SetHeader("Subject", "Pagamento confirmado — sua assinatura está ativa")
	m.SetBody("text/html", GeneratePaymentConfirmationHTML(confirmation))

	d := gomail.NewDialer(s.smtpHost, s.smtpPort, s.smtpUsername, s.smtpPassword)

	if err := d.DialAndSend(m); err != nil {
		s.logger.Error("Failed to send payment confirmation email",
			zap.String("email", confirmation.Email),
			zap.Error(err))
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}

	s.logger.Info("Payment confirmation email sent",
		zap.String("email", confirmation.Email),
		zap.String("plan", confirmation.Plan))
	return nil
}

// GeneratePaymentConfirmationHTML renders the confirmation email body with
// inline styles for client compatibility.
func GeneratePaymentConfirmationHTML(c *PaymentConfirmation) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
	<meta http-equiv="Content-Type" content="text/html; charset=UTF-8" />
	<title>Pagamento confirmado</title>
</head>
<body style="margin: 0; padding: 0; font-family: Arial, Helvetica, sans-serif; background-color: #f7f9fc;">
	<table align="center" border="0" cellpadding="0" cellspacing="0" width="600" style="border-collapse: collapse; background-color: #ffffff;">
		<tr>
			<td align="center" style="padding: 30px 0; background-color: #22c55e; color: #ffffff;">
				<h1 style="margin: 0; font-size: 26px;">Pagamento confirmado!</h1>
			</td>
		</tr>
		<tr>
			<td style="padding: 30px; color: #333333; font-size: 16px; line-height: 1.6;">
				<p style="margin-top: 0;">Olá, <strong>%s</strong>!</p>
				<p>Recebemos o seu pagamento e sua assinatura já está ativa.</p>
				<table border="0" cellpadding="6" cellspacing="0" width="100%%" style="border-collapse: collapse; background-color: #f3f5ff; border-radius: 8px;">
					<tr><td>Plano</td><td align="right"><strong>%s</strong></td></tr>
					<tr><td>Valor pago</td><td align="right"><strong>R$ %s</strong></td></tr>
					<tr><td>Válida até</td><td align="right"><strong>%s</strong></td></tr>
				</table>
				<p style="margin-bottom: 0;">Bons treinos!<br/>Equipe VitaFit</p>
			</td>
		</tr>
	</table>
</body>
</html>`,
		c.Name,
		c.Plan,
		c.AmountPaid.StringFixed(2),
		c.ExpiresAt.Format("02/01/2006"),
	)
}
