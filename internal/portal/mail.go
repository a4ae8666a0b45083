package portal

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"

	"vpn-coordination-portal/internal/storage"
	"vpn-coordination-portal/internal/utils"
)

//go:embed templates/*.tmpl
var mailFS embed.FS

var mailTemplates = template.Must(template.ParseFS(mailFS, "templates/*.tmpl"))

const resentFooter = "This is a resent email from the admin panel."

type inviteMail struct {
	ContactName string
	SideLabel   string
	Link        string
	Reason      string
	Resent      bool
	Footer      string
}

type reviewMail struct {
	Name   string
	Link   string
	Resent bool
	Footer string
}

type summaryMail struct {
	Name         string
	RemotePretty string
	LocalPretty  string
	Resent       bool
	Footer       string
}

func (e *Engine) renderMail(name string, data any) (string, bool) {
	var buf bytes.Buffer
	if err := mailTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		e.logger.Error("Failed to render mail template", "template", name, "error", err)
		return "", false
	}
	return buf.String(), true
}

func (e *Engine) formLink(side storage.Side, token string) string {
	return fmt.Sprintf("%s/%s/%s", e.baseURL, side, token)
}

func (e *Engine) reviewLink(token string) string {
	return fmt.Sprintf("%s/agree/%s", e.baseURL, token)
}

func resentPrefix(resent bool) string {
	if resent {
		return "[RESENT] "
	}
	return ""
}

// sendInitialInvites emails each party the link to its own detail form: one
// mail to the remote contact, one to the local team list. Both local
// recipients share the same form, so the invite is a single message.
func (e *Engine) sendInitialInvites(req *storage.VPNRequest, resent bool) {
	remoteBody, ok := e.renderMail("invite.html.tmpl", inviteMail{
		ContactName: req.RemoteContactName,
		SideLabel:   "remote",
		Link:        e.formLink(storage.SideRemote, req.RemoteToken),
		Reason:      req.Reason,
		Resent:      resent,
		Footer:      resentFooter,
	})
	if ok {
		e.notifier.Send(
			[]string{req.RemoteContactEmail},
			fmt.Sprintf("[VPN Portal] %sPlease provide remote details for '%s'", resentPrefix(resent), req.Name),
			remoteBody,
		)
	}

	localBody, ok := e.renderMail("invite.html.tmpl", inviteMail{
		SideLabel: "local",
		Link:      e.formLink(storage.SideLocal, req.LocalToken),
		Reason:    req.Reason,
		Resent:    resent,
		Footer:    resentFooter,
	})
	if !ok {
		return
	}
	e.notifier.Send(
		utils.SplitAddressList(req.LocalTeamEmail),
		fmt.Sprintf("[VPN Portal] %sPlease provide local details for '%s'", resentPrefix(resent), req.Name),
		localBody,
	)
}

// sendReviewInvites emails every party its review link once both sides have
// submitted.
func (e *Engine) sendReviewInvites(req *storage.VPNRequest, resent bool) {
	subject := fmt.Sprintf("[VPN Portal] %sReview & Agree — %s", resentPrefix(resent), req.Name)

	remoteBody, ok := e.renderMail("review.html.tmpl", reviewMail{
		Name:   req.Name,
		Link:   e.reviewLink(req.RemoteToken),
		Resent: resent,
		Footer: resentFooter,
	})
	if ok {
		e.notifier.Send([]string{req.RemoteContactEmail}, subject, remoteBody)
	}

	localBody, ok := e.renderMail("review.html.tmpl", reviewMail{
		Name:   req.Name,
		Link:   e.reviewLink(req.LocalToken),
		Resent: resent,
		Footer: resentFooter,
	})
	if !ok {
		return
	}
	for _, addr := range utils.SplitAddressList(req.LocalTeamEmail) {
		e.notifier.Send([]string{addr}, subject, localBody)
	}
}

// sendFinalSummary emails the finalized configuration, both payloads pretty
// printed, to the remote contact and every local team address.
func (e *Engine) sendFinalSummary(req *storage.VPNRequest, resent bool) {
	body, ok := e.renderMail("final.html.tmpl", summaryMail{
		Name:         req.Name,
		RemotePretty: prettyConfig(req.RemoteData),
		LocalPretty:  prettyConfig(req.LocalData),
		Resent:       resent,
		Footer:       resentFooter,
	})
	if !ok {
		return
	}
	subject := fmt.Sprintf("[VPN Portal] %sFinalized VPN - %s", resentPrefix(resent), req.Name)

	e.notifier.Send([]string{req.RemoteContactEmail}, subject, body)
	for _, addr := range utils.SplitAddressList(req.LocalTeamEmail) {
		e.notifier.Send([]string{addr}, subject, body)
	}
}

func prettyConfig(cfg *storage.SideConfig) string {
	if cfg == nil {
		return "{}"
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}
