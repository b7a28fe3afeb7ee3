package gmailclient

import (
	"encoding/base64"
	"fmt"
	"time"

	"google.golang.org/api/gmail/v1"
)

// sendInterval is the minimum spacing between two sends.
const sendInterval = 3 * time.Second

// SendEmail sends a plain-text email, used for assignment notifications.
func (c *Client) SendEmail(to, subject, body string) error {
	headers := fmt.Sprintf("To: %s\r\nSubject: %s\r\n\r\n", to, subject)
	return c.send(headers + body)
}

// SendHTMLEmail sends an email with an HTML body, used for the rendered
// schedule grid.
func (c *Client) SendHTMLEmail(to, subject, htmlBody string) error {
	headers := fmt.Sprintf(
		"To: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n",
		to, subject)
	return c.send(headers + htmlBody)
}

func (c *Client) send(message string) error {
	c.sendMutex.Lock()
	defer c.sendMutex.Unlock()

	if !c.lastSendTime.IsZero() {
		elapsed := time.Since(c.lastSendTime)
		if elapsed < sendInterval {
			time.Sleep(sendInterval - elapsed)
		}
	}

	gmailMessage := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(message)),
	}

	_, err := c.service.Users.Messages.Send("me", gmailMessage).Do()
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	c.lastSendTime = time.Now()

	return nil
}
