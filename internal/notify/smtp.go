package notify

import (
	"fmt"
	"net"
	"net/smtp"
)

type SMTPSender struct {
	host     string
	port     string
	user     string
	pass     string
	from     string
	fromName string
}

func NewSMTPSender(host, port, user, pass, from, fromName string) *SMTPSender {
	return &SMTPSender{
		host:     host,
		port:     port,
		user:     user,
		pass:     pass,
		from:     from,
		fromName: fromName,
	}
}

func (s *SMTPSender) Send(job Job) error {
	var auth smtp.Auth
	if s.user != "" && s.pass != "" {
		auth = smtp.PlainAuth("", s.user, s.pass, s.host)
	}

	addr := net.JoinHostPort(s.host, s.port)
	return smtp.SendMail(addr, auth, s.from, []string{job.To}, s.message(job))
}

func (s *SMTPSender) message(job Job) []byte {
	msg := fmt.Sprintf("From: %s <%s>\r\n", s.fromName, s.from)
	msg += fmt.Sprintf("To: %s\r\n", job.To)
	msg += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	msg += "MIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n"
	msg += "\r\n" + job.Body
	return []byte(msg)
}
