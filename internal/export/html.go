// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/jeranaias/warlock-tui/internal/model"
	"github.com/jeranaias/warlock-tui/internal/render"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter exports transcripts to a self-contained HTML page.
// Answers go through the structured-text renderer; questions are escaped
// and kept as plain text.
type HTMLExporter struct {
	options *Options
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{options: opts}
}

// Export converts a transcript to HTML format.
func (e *HTMLExporter) Export(t *Transcript) ([]byte, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}

	theme := e.options.Theme
	if theme != "light" {
		theme = "dark"
	}

	var sb strings.Builder

	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString("<html lang=\"en\">\n")
	sb.WriteString("<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	sb.WriteString(fmt.Sprintf("    <title>%s rules</title>\n", html.EscapeString(t.GameName)))
	sb.WriteString("    <meta name=\"generator\" content=\"warlock\">\n")
	sb.WriteString(fmt.Sprintf("    <meta name=\"date\" content=\"%s\">\n", t.ExportedAt.Format(time.RFC3339)))
	sb.WriteString(stylesheet)
	sb.WriteString("</head>\n")
	sb.WriteString(fmt.Sprintf("<body class=\"%s-theme\">\n", theme))
	sb.WriteString("    <div class=\"container\">\n")

	if e.options.IncludeMetadata {
		sb.WriteString(e.renderHeader(t))
	}

	sb.WriteString("        <main class=\"conversation\">\n")
	for _, msg := range t.Messages {
		sb.WriteString(e.renderMessage(msg))
	}
	sb.WriteString("        </main>\n")

	sb.WriteString("        <footer class=\"footer\">\n")
	sb.WriteString(fmt.Sprintf("            <p>Exported from <strong>Warlock</strong> on %s</p>\n",
		t.ExportedAt.Format("January 2, 2006 at 3:04 PM")))
	sb.WriteString("        </footer>\n")
	sb.WriteString("    </div>\n")
	sb.WriteString("</body>\n")
	sb.WriteString("</html>\n")

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// MimeType returns the MIME type for HTML.
func (e *HTMLExporter) MimeType() string {
	return "text/html"
}

// =============================================================================
// RENDERING FUNCTIONS
// =============================================================================

func (e *HTMLExporter) renderHeader(t *Transcript) string {
	var sb strings.Builder
	sb.WriteString("        <header class=\"header\">\n")
	sb.WriteString(fmt.Sprintf("            <h1>%s rules</h1>\n", html.EscapeString(t.GameName)))
	sb.WriteString("            <div class=\"metadata\">\n")
	sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Game:</strong> %s</span>\n", html.EscapeString(t.GameID)))
	sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Exported:</strong> %s</span>\n", formatTimestamp(t.ExportedAt)))
	sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Messages:</strong> %d</span>\n", len(t.Messages)))
	sb.WriteString("            </div>\n")
	sb.WriteString("        </header>\n")
	return sb.String()
}

func (e *HTMLExporter) renderMessage(msg *model.ChatMessage) string {
	var sb strings.Builder

	class := string(msg.Role) + "-message"
	if msg.IsError() {
		class += " error-message"
	}
	sb.WriteString(fmt.Sprintf("            <div class=\"message %s\">\n", class))

	sb.WriteString("                <div class=\"message-header\">\n")
	sb.WriteString(fmt.Sprintf("                    <span class=\"role\">%s</span>\n", msg.Role.DisplayName()))
	if e.options.IncludeTimestamps {
		sb.WriteString(fmt.Sprintf("                    <span class=\"timestamp\">%s</span>\n", formatShortTimestamp(msg.Timestamp)))
	}
	sb.WriteString("                </div>\n")

	sb.WriteString("                <div class=\"message-content\">\n")
	if msg.Role == model.RoleAssistant && !msg.IsError() {
		sb.WriteString(render.HTML(msg.Content))
	} else {
		sb.WriteString("<p>")
		sb.WriteString(strings.ReplaceAll(html.EscapeString(msg.Content), "\n", "<br>"))
		sb.WriteString("</p>")
	}
	sb.WriteString("\n                </div>\n")

	if refs := referenceList(msg); len(refs) > 0 {
		sb.WriteString("                <ul class=\"references\">\n")
		for _, r := range refs {
			sb.WriteString(fmt.Sprintf("                    <li>%s</li>\n", html.EscapeString(r)))
		}
		sb.WriteString("                </ul>\n")
	}

	sb.WriteString("            </div>\n")
	return sb.String()
}

// =============================================================================
// EMBEDDED CSS
// =============================================================================

const stylesheet = `    <style>
        :root {
            --font-sans: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Arial, sans-serif;
            --font-mono: "SF Mono", "Fira Code", "Source Code Pro", monospace;
        }

        .dark-theme {
            --bg-primary: #1a1b26;
            --bg-secondary: #24283b;
            --text-primary: #c0caf5;
            --text-muted: #565f89;
            --border-color: #414868;
            --accent-blue: #7aa2f7;
            --accent-green: #9ece6a;
            --accent-purple: #bb9af7;
            --accent-red: #f7768e;
        }

        .light-theme {
            --bg-primary: #ffffff;
            --bg-secondary: #f7f8fa;
            --text-primary: #24292e;
            --text-muted: #6a737d;
            --border-color: #e1e4e8;
            --accent-blue: #0366d6;
            --accent-green: #22863a;
            --accent-purple: #6f42c1;
            --accent-red: #d73a49;
        }

        body {
            font-family: var(--font-sans);
            line-height: 1.6;
            color: var(--text-primary);
            background: var(--bg-primary);
            margin: 0;
            padding: 20px;
        }

        .container { max-width: 900px; margin: 0 auto; background: var(--bg-secondary); border-radius: 8px; }
        .header, .conversation, .footer { padding: 24px; }
        .header { border-bottom: 2px solid var(--border-color); }
        .header h1 { margin: 0 0 8px 0; }
        .meta-item { margin-right: 16px; color: var(--text-muted); }

        .message { margin-bottom: 16px; padding: 16px; border-left: 4px solid; border-radius: 4px; background: var(--bg-primary); }
        .user-message { border-left-color: var(--accent-blue); }
        .assistant-message { border-left-color: var(--accent-green); }
        .error-message { border-left-color: var(--accent-red); }
        .message-header { display: flex; justify-content: space-between; margin-bottom: 8px; }
        .role { font-weight: 600; }
        .timestamp { color: var(--text-muted); font-family: var(--font-mono); font-size: 0.85em; }

        .paragraph { margin: 0 0 8px 0; }
        .bullet-group, .numbered-group { margin: 0 0 8px 0; }
        .bullet-item, .numbered-item { margin: 2px 0; }
        .bullet-point, .numbered-marker { color: var(--accent-purple); margin-right: 6px; }
        .sub-item, .nested-sub-item, .numbered-sub-item, .sub-bullet { margin: 2px 0 2px 24px; }
        .inline-code { font-family: var(--font-mono); padding: 1px 4px; border: 1px solid var(--border-color); border-radius: 3px; }

        .references { margin: 8px 0 0 0; color: var(--text-muted); font-size: 0.9em; }
        .footer { color: var(--text-muted); border-top: 1px solid var(--border-color); }

        @media print {
            .message { page-break-inside: avoid; }
        }
    </style>
`
