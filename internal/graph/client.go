// Package graph reads messages from a Microsoft Graph mailbox using an
// application (client-credential) registration.
package graph

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/google/go-querystring/query"
	"github.com/juju/errors"

	"github.com/diewo77/sms-api/internal/config"
	"github.com/diewo77/sms-api/internal/logging"
)

const (
	// Scope requests every application permission granted to the registration.
	Scope = "https://graph.microsoft.com/.default"

	moduleName    = "sms-api/graph"
	moduleVersion = "v1.0.0"
)

// ErrUpstream marks failures of the mail provider: token exchange or any
// non-200 Graph response.
const ErrUpstream = errors.ConstError("mail provider failure")

// CredentialFunc builds a token credential. It is called once per fetch.
type CredentialFunc func() (azcore.TokenCredential, error)

// Message is one mailbox message with the fields the tracking workflow needs.
type Message struct {
	ID                string   `json:"id"`
	InternetMessageID *string  `json:"internetMessageId"`
	InReplyTo         *string  `json:"inReplyTo"`
	From              *string  `json:"from"`
	Subject           *string  `json:"subject"`
	BodyHTML          string   `json:"bodyHtml"`
	To                []string `json:"to"`
	Cc                []string `json:"cc"`
}

type Client struct {
	baseURL       string
	mailbox       string
	newCredential CredentialFunc
	transport     policy.Transporter
	pipeline      runtime.Pipeline
}

type Option func(*Client)

// WithCredentialFunc replaces the client-secret credential.
func WithCredentialFunc(f CredentialFunc) Option {
	return func(c *Client) { c.newCredential = f }
}

// WithTransport sends requests through t instead of the default HTTP client.
func WithTransport(t policy.Transporter) Option {
	return func(c *Client) { c.transport = t }
}

// New returns a client for the mailbox in cfg.
func New(cfg config.GraphConfig, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		mailbox: cfg.Mailbox,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.mailbox == "" {
		return nil, errors.NotValidf("MAILBOX")
	}
	if c.baseURL == "" {
		c.baseURL = "https://graph.microsoft.com"
	}
	if c.newCredential == nil {
		if !cfg.MailConfigured() {
			return nil, errors.NotValidf("mail provider registration (TENANT_ID, CLIENT_ID, CLIENT_SECRET)")
		}
		c.newCredential = ClientSecretCredential(cfg)
	}

	clientOpts := &policy.ClientOptions{
		Retry: policy.RetryOptions{MaxRetries: -1},
	}
	if c.transport != nil {
		clientOpts.Transport = c.transport
	}
	c.pipeline = runtime.NewPipeline(moduleName, moduleVersion, runtime.PipelineOptions{}, clientOpts)
	return c, nil
}

// ClientSecretCredential returns a CredentialFunc exchanging the application
// secret at https://login.microsoftonline.com/<tenant>.
func ClientSecretCredential(cfg config.GraphConfig) CredentialFunc {
	return func() (azcore.TokenCredential, error) {
		return azidentity.NewClientSecretCredential(cfg.TenantID, cfg.ClientID, cfg.ClientSecret, nil)
	}
}

// Token acquires a fresh access token.
func (c *Client) Token(ctx context.Context) (string, error) {
	cred, err := c.newCredential()
	if err != nil {
		return "", upstream(err, "building mail credential")
	}
	tok, err := cred.GetToken(ctx, policy.TokenRequestOptions{Scopes: []string{Scope}})
	if err != nil {
		return "", upstream(err, "acquiring mail token")
	}
	if tok.Token == "" {
		return "", upstream(errors.New("empty access token"), "acquiring mail token")
	}
	return tok.Token, nil
}

type listOptions struct {
	Top     int    `url:"$top"`
	OrderBy string `url:"$orderby"`
}

type emailAddress struct {
	Address *string `json:"address"`
}

type recipient struct {
	EmailAddress emailAddress `json:"emailAddress"`
}

type itemBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

type graphMessage struct {
	ID                string      `json:"id"`
	InternetMessageID *string     `json:"internetMessageId"`
	InReplyTo         *string     `json:"inReplyTo"`
	Subject           *string     `json:"subject"`
	From              *recipient  `json:"from"`
	Body              *itemBody   `json:"body"`
	ToRecipients      []recipient `json:"toRecipients"`
	CcRecipients      []recipient `json:"ccRecipients"`
}

type messageList struct {
	Value []graphMessage `json:"value"`
}

// FetchRecent lists the newest top messages by received time, then loads each
// one in full. Any failure aborts the whole fetch.
func (c *Client) FetchRecent(ctx context.Context, top int) ([]Message, error) {
	if top <= 0 {
		return nil, errors.NotValidf("limit %d", top)
	}
	token, err := c.Token(ctx)
	if err != nil {
		return nil, err
	}

	v, err := query.Values(listOptions{Top: top, OrderBy: "receivedDateTime desc"})
	if err != nil {
		return nil, errors.Trace(err)
	}
	listURL := c.messagesURL() + "?" + strings.ReplaceAll(v.Encode(), "+", "%20")

	var list messageList
	if err := c.get(ctx, token, listURL, &list); err != nil {
		return nil, err
	}

	out := make([]Message, 0, len(list.Value))
	for _, m := range list.Value {
		var full graphMessage
		if err := c.get(ctx, token, c.messagesURL()+"/"+url.PathEscape(m.ID), &full); err != nil {
			return nil, err
		}
		out = append(out, toMessage(m.ID, full))
	}
	logging.WithFields(map[string]any{"mailbox": c.mailbox, "count": len(out)}).Debug("fetched mailbox messages")
	return out, nil
}

func (c *Client) messagesURL() string {
	return c.baseURL + "/v1.0/users/" + url.PathEscape(c.mailbox) + "/messages"
}

func (c *Client) get(ctx context.Context, token, endpoint string, v any) error {
	req, err := runtime.NewRequest(ctx, http.MethodGet, endpoint)
	if err != nil {
		return errors.Trace(err)
	}
	req.Raw().Header.Set("Authorization", "Bearer "+token)
	req.Raw().Header.Set("Accept", "application/json")

	resp, err := c.pipeline.Do(req)
	if err != nil {
		return upstream(err, "requesting mail provider")
	}
	if !runtime.HasStatusCode(resp, http.StatusOK) {
		return upstream(runtime.NewResponseError(resp), "requesting mail provider")
	}
	if err := runtime.UnmarshalAsJSON(resp, v); err != nil {
		return upstream(err, "decoding mail provider response")
	}
	return nil
}

func toMessage(id string, m graphMessage) Message {
	msg := Message{
		ID:                id,
		InternetMessageID: m.InternetMessageID,
		InReplyTo:         m.InReplyTo,
		Subject:           m.Subject,
		To:                addresses(m.ToRecipients),
		Cc:                addresses(m.CcRecipients),
	}
	if m.From != nil {
		msg.From = m.From.EmailAddress.Address
	}
	if m.Body != nil {
		msg.BodyHTML = m.Body.Content
	}
	return msg
}

func addresses(rs []recipient) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		if r.EmailAddress.Address != nil {
			out = append(out, *r.EmailAddress.Address)
		}
	}
	return out
}

func upstream(err error, msg string) error {
	return errors.WithType(errors.Annotate(err, msg), ErrUpstream)
}
