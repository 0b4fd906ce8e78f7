package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// Ethereal (https://ethereal.email) hands out disposable SMTP accounts for
// development. Messages are never delivered; they land in a web-viewable
// inbox that the provider garbage-collects after a while.
const etherealAPI = "https://api.nodemailer.com/user"

// TestAccount holds credentials for a disposable Ethereal inbox.
type TestAccount struct {
	User string
	Pass string
	Host string
	Port int
	Web  string // base URL of the web inbox
}

type etherealRequest struct {
	Requestor string `json:"requestor"`
	Version   string `json:"version"`
}

type etherealResponse struct {
	Status string `json:"status"`
	User   string `json:"user"`
	Pass   string `json:"pass"`
	SMTP   struct {
		Host   string `json:"host"`
		Port   int    `json:"port"`
		Secure bool   `json:"secure"`
	} `json:"smtp"`
	Web   string `json:"web"`
	Error string `json:"error"`
}

// ProvisionTestAccount requests a fresh disposable account from Ethereal.
func ProvisionTestAccount(ctx context.Context) (*TestAccount, error) {
	return provisionTestAccount(ctx, etherealAPI)
}

func provisionTestAccount(ctx context.Context, apiURL string) (*TestAccount, error) {
	payload := etherealRequest{Requestor: "relay", Version: "1.0.0"}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, provisioningErr("failed to marshal account request", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, provisioningErr("failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, provisioningErr("failed to reach Ethereal API", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, provisioningErr("failed to read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, provisioningErr(fmt.Sprintf("Ethereal API error (status %d): %s", resp.StatusCode, string(body)), nil)
	}

	var result etherealResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, provisioningErr("failed to parse response", err)
	}

	if result.Status != "success" || result.User == "" {
		return nil, provisioningErr(fmt.Sprintf("Ethereal account request rejected: %s", result.Error), nil)
	}

	account := &TestAccount{
		User: result.User,
		Pass: result.Pass,
		Host: result.SMTP.Host,
		Port: result.SMTP.Port,
		Web:  result.Web,
	}
	if account.Web == "" {
		account.Web = "https://ethereal.email"
	}

	return account, nil
}

// EtherealSender implements Sender against a disposable Ethereal inbox.
// Sends succeed like real SMTP but never leave the provider; the returned
// preview URL points at the account's web inbox.
type EtherealSender struct {
	account *TestAccount
	logger  *slog.Logger
}

// NewEtherealSender wraps a provisioned test account in a Sender.
// The account credentials are logged so developers can open the inbox.
func NewEtherealSender(account *TestAccount, logger *slog.Logger) *EtherealSender {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("ethereal: using disposable test inbox",
		"user", account.User,
		"pass", account.Pass,
		"web", account.Web,
	)
	return &EtherealSender{
		account: account,
		logger:  logger,
	}
}

// Send delivers the message to the disposable inbox.
func (s *EtherealSender) Send(ctx context.Context, email *Email) (string, error) {
	msg, err := buildMessage(email)
	if err != nil {
		return "", err
	}

	client, err := gomail.NewClient(s.account.Host,
		gomail.WithPort(s.account.Port),
		gomail.WithTimeout(30*time.Second),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
		gomail.WithUsername(s.account.User),
		gomail.WithPassword(s.account.Pass),
		gomail.WithSMTPAuth(gomail.SMTPAuthAutoDiscover),
	)
	if err != nil {
		return "", sendErr("failed to create SMTP client", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		s.logger.Error("ethereal: failed to send email", "error", err)
		return "", sendErr("failed to send email", err)
	}

	previewURL := s.PreviewURL()
	s.logger.Info("ethereal: email captured", "to", email.To, "preview", previewURL)

	return previewURL, nil
}

// PreviewURL returns the web inbox for the disposable account. SMTP does not
// hand back a per-message token, so the inbox listing is the preview target;
// the credentials for it are logged at provisioning time.
func (s *EtherealSender) PreviewURL() string {
	return s.account.Web + "/messages"
}
