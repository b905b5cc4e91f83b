package email

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"Pulse/Models"
)

// SendEmail sends an email using the provided configuration and message details
func SendEmail(config Models.EmailConfig, message Models.EmailMessage) error {
	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("%s <%s>", config.FromName, config.FromEmail)
	headers["To"] = strings.Join(message.To, ", ")
	headers["Subject"] = message.Subject

	if len(message.CC) > 0 {
		headers["Cc"] = strings.Join(message.CC, ", ")
	}

	if message.IsHTML {
		headers["MIME-Version"] = "1.0"
		headers["Content-Type"] = "text/html; charset=UTF-8"
	} else {
		headers["Content-Type"] = "text/plain; charset=UTF-8"
	}

	var messageBody strings.Builder
	for key, value := range headers {
		messageBody.WriteString(fmt.Sprintf("%s: %s\r\n", key, value))
	}

	messageBody.WriteString("\r\n")
	messageBody.WriteString(message.Body)

	auth := smtp.PlainAuth("", config.Username, config.Password, config.SMTPServer)

	var recipients []string
	recipients = append(recipients, message.To...)
	recipients = append(recipients, message.CC...)
	recipients = append(recipients, message.BCC...)

	serverAddr := fmt.Sprintf("%s:%d", config.SMTPServer, config.SMTPPort)

	if config.TLSEnabled {
		tlsConfig := &tls.Config{
			ServerName:         config.SMTPServer,
			InsecureSkipVerify: config.SkipTLSCheck,
		}

		conn, err := tls.Dial("tcp", serverAddr, tlsConfig)
		if err != nil {
			return fmt.Errorf("error connecting to SMTP server: %v", err)
		}
		defer conn.Close()

		client, err := smtp.NewClient(conn, config.SMTPServer)
		if err != nil {
			return fmt.Errorf("error creating SMTP client: %v", err)
		}
		defer client.Close()

		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("error authenticating: %v", err)
		}

		if err := client.Mail(config.FromEmail); err != nil {
			return fmt.Errorf("error setting sender: %v", err)
		}

		for _, recipient := range recipients {
			if err := client.Rcpt(recipient); err != nil {
				return fmt.Errorf("error adding recipient %s: %v", recipient, err)
			}
		}

		writer, err := client.Data()
		if err != nil {
			return fmt.Errorf("error opening data writer: %v", err)
		}

		if _, err := writer.Write([]byte(messageBody.String())); err != nil {
			return fmt.Errorf("error writing message: %v", err)
		}

		if err := writer.Close(); err != nil {
			return fmt.Errorf("error closing data writer: %v", err)
		}

		return client.Quit()
	}

	return smtp.SendMail(serverAddr, auth, config.FromEmail, recipients, []byte(messageBody.String()))
}

// NotifyLateSubmitters emails everyone whose timesheet came in late for the
// period.
func NotifyLateSubmitters(config Models.EmailConfig, timings []Models.TimesheetTiming) error {
	var sendErr error

	for _, timing := range timings {
		if !timing.IsReceiveLate {
			continue
		}

		message := Models.EmailMessage{
			To:      []string{timing.UserEmail},
			Subject: "Просроченный табель: " + timing.ProjectName,
			Body: fmt.Sprintf(
				"Табель по проекту %s за период %s — %s был сдан с опозданием. Пожалуйста, сдавайте табели вовремя.",
				timing.ProjectName,
				timing.PeriodStart.Format("02.01.2006"),
				timing.PeriodEnd.Format("02.01.2006"),
			),
		}

		if err := SendEmail(config, message); err != nil {
			sendErr = err
		}
	}

	return sendErr
}
