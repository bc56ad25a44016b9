// Package progress sends the three custom notifications a client can
// show as a long-running-task indicator during a classpath scan or
// workspace-wide reindex: java/startProgress, java/reportProgress,
// java/endProgress.
package progress

import "github.com/tliron/glsp"

const (
	notifyStart  = "java/startProgress"
	notifyReport = "java/reportProgress"
	notifyEnd    = "java/endProgress"
)

type startParams struct {
	Title string `json:"title"`
}

type reportParams struct {
	Message string `json:"message"`
}

// Start sends java/startProgress with {title}.
func Start(ctx *glsp.Context, title string) {
	ctx.Notify(notifyStart, startParams{Title: title})
}

// Report sends java/reportProgress with {message}.
func Report(ctx *glsp.Context, message string) {
	ctx.Notify(notifyReport, reportParams{Message: message})
}

// End sends java/endProgress with null.
func End(ctx *glsp.Context) {
	ctx.Notify(notifyEnd, nil)
}
