package service

import (
	"fmt"
	"html"

	"finlogix/config"

	"gopkg.in/gomail.v2"
)

// Mailer 发送密码重置邮件
type Mailer interface {
	Enabled() bool
	SendPasswordResetEmail(toEmail, resetLink string) error
}

// EmailService 邮件服务
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// Enabled 是否启用邮件发送
func (s *EmailService) Enabled() bool {
	return s.cfg != nil && s.cfg.Enabled
}

// SendPasswordResetEmail 发送密码重置邮件
func (s *EmailService) SendPasswordResetEmail(toEmail, resetLink string) error {
	if !s.Enabled() {
		return fmt.Errorf("邮件服务未启用，请配置 email.enabled=true")
	}

	subject := "[FinLogix] Reset your password"
	body := s.generateResetEmailBody(toEmail, resetLink)

	return s.sendEmail(toEmail, subject, body)
}

// generateResetEmailBody 生成重置邮件内容
func (s *EmailService) generateResetEmailBody(email, resetLink string) string {
	link := html.EscapeString(resetLink)
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; }
        .header { background: #2563eb; color: white; padding: 30px; text-align: center; }
        .content { padding: 40px 30px; color: #333; line-height: 1.8; }
        .btn { display: inline-block; background: #2563eb; color: white !important; text-decoration: none; padding: 14px 40px; border-radius: 8px; }
        .warning { background: #fff3cd; border-left: 4px solid #ffc107; padding: 15px; color: #856404; font-size: 14px; }
        .link { word-break: break-all; color: #2563eb; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header"><h1>FinLogix</h1></div>
        <div class="content">
            <p>Hello <strong>%s</strong>,</p>
            <p>We received a request to reset your password. Click the button below to choose a new one:</p>
            <p style="text-align: center;"><a href="%s" class="btn">Reset password</a></p>
            <div class="warning">
                <p>This link expires in <strong>30 minutes</strong>. If you did not ask for a reset, ignore this email.</p>
            </div>
            <p class="link">%s</p>
        </div>
    </div>
</body>
</html>
`, html.EscapeString(email), link, link)
}

// sendEmail 发送邮件
func (s *EmailService) sendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}

	return nil
}
