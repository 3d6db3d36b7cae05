package transport

import (
	"errors"
	"time"

	"github.com/nicovaras/clare/internal/modules/console/domain"
	"github.com/nicovaras/clare/internal/shared/auth"
)

// PageView is everything the console page template needs.
type PageView struct {
	UserID            string
	AuthToken         string
	Token             TokenView
	Input             domain.PanelInput
	SendFlow          string
	UpdateFlow        string
	SendFlowOptions   []string
	UpdateFlowOptions []string
	Panels            []PanelView
	Active            domain.Panel
	BaseURL           string
	Error             string
}

// PanelView is one panel with its latest result, if it was the one triggered.
type PanelView struct {
	Key    domain.Panel
	Title  string
	Action string
	Result *domain.PanelResult
}

// TokenView describes the auth token in the session bar.
type TokenView struct {
	Kind      string
	Subject   string
	Issuer    string
	ExpiresAt string
	Warning   string
}

func newPageView(session domain.Session, input domain.PanelInput, baseURL string, token TokenView) *PageView {
	sendForm := input.SendMessageForm()
	updateForm := input.UpdateContextForm()
	view := &PageView{
		UserID:            session.UserID,
		AuthToken:         session.AuthToken,
		Token:             token,
		Input:             input,
		SendFlow:          sendForm.Flow,
		UpdateFlow:        updateForm.Flow,
		SendFlowOptions:   domain.SendFlowOptions,
		UpdateFlowOptions: domain.UpdateFlowOptions,
		Panels:            make([]PanelView, 0, len(domain.Panels)),
		BaseURL:           baseURL,
	}
	for _, panel := range domain.Panels {
		view.Panels = append(view.Panels, PanelView{Key: panel, Title: panel.Title(), Action: panel.Action()})
	}
	return view
}

func (v *PageView) withResult(result *domain.PanelResult) *PageView {
	if result == nil {
		return v
	}
	v.Active = result.Panel
	for i := range v.Panels {
		if v.Panels[i].Key == result.Panel {
			v.Panels[i].Result = result
		}
	}
	return v
}

// withError marks panel as the one that failed and sets the page banner.
func (v *PageView) withError(panel domain.Panel, message string) *PageView {
	v.Active = panel
	v.Error = message
	return v
}

func describeToken(inspector *auth.TokenInspector, token string) TokenView {
	info, err := inspector.Inspect(token)
	switch {
	case errors.Is(err, auth.ErrMissingToken):
		return TokenView{Kind: "missing", Warning: "No auth token set; requests are sent with an empty bearer token."}
	case err != nil:
		return TokenView{Kind: "opaque"}
	}
	view := TokenView{Kind: "jwt", Subject: info.Subject, Issuer: info.Issuer}
	if info.ExpiresAt != nil {
		view.ExpiresAt = info.ExpiresAt.Format(time.RFC3339)
		if info.Expired {
			view.Warning = "Auth token expired at " + view.ExpiresAt + "."
		}
	}
	return view
}
