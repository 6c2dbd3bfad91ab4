package invitation

import (
	"embed"

	"github.com/dmitrymomot/invitations/pkg/mailer"
)

//go:embed templates
var templatesFS embed.FS

// NewRenderer returns a renderer over the embedded invitation templates.
func NewRenderer() *mailer.Renderer {
	return mailer.NewRendererWithConfig(templatesFS, mailer.RendererConfig{
		TemplateDir: "templates",
		LayoutDir:   "templates/layouts",
	})
}
