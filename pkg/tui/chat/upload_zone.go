package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/killallgit/entropy/pkg/api"
	"github.com/killallgit/entropy/pkg/tui/theme"
)

// uploadZone picks a dataset by path. Dropping a file onto most terminals
// pastes its path, which lands in the input.
type uploadZone struct {
	input     textinput.Model
	files     FileSelector
	styles    *theme.Styles
	selected  *api.SelectedFile
	uploaded  *api.UploadResult
	uploading bool
	err       error
	focused   bool
	width     int
}

func newUploadZone(files FileSelector, styles *theme.Styles) uploadZone {
	ti := textinput.New()
	ti.Placeholder = "Drop your dataset here or type its path"
	ti.Prompt = "⇪ "
	ti.CharLimit = 4096
	return uploadZone{input: ti, files: files, styles: styles}
}

func (z *uploadZone) Focus() tea.Cmd {
	z.focused = true
	return z.input.Focus()
}

func (z *uploadZone) Blur() {
	z.focused = false
	z.input.Blur()
}

func (z *uploadZone) SetWidth(w int) {
	z.width = w
	z.input.Width = max(w-8, 10)
}

// Clear drops the selection and any error; a finished upload is kept
func (z *uploadZone) Clear() {
	z.input.SetValue("")
	z.selected = nil
	z.err = nil
}

// Reopen starts choosing a new file
func (z *uploadZone) Reopen() {
	z.Clear()
	z.uploaded = nil
}

// Path returns the cleaned path of the current selection
func (z uploadZone) Path() string {
	if z.selected == nil {
		return ""
	}
	return z.selected.Path
}

func (z uploadZone) Ready() bool {
	return z.selected != nil && !z.uploading
}

func (z *uploadZone) SetUploading(v bool) {
	z.uploading = v
	if v {
		z.err = nil
	}
}

func (z *uploadZone) SetError(err error) {
	z.uploading = false
	z.err = err
}

func (z *uploadZone) SetUploaded(result *api.UploadResult) {
	z.uploading = false
	z.uploaded = result
	z.Clear()
}

func (z uploadZone) Update(msg tea.Msg) (uploadZone, tea.Cmd) {
	if z.uploading {
		return z, nil
	}
	before := z.input.Value()
	var cmd tea.Cmd
	z.input, cmd = z.input.Update(msg)
	if z.input.Value() != before {
		z.validate()
	}
	return z, cmd
}

// SetPath replaces the input text and validates it
func (z *uploadZone) SetPath(path string) {
	z.input.SetValue(path)
	z.validate()
}

func (z *uploadZone) validate() {
	z.selected = nil
	z.err = nil

	path := cleanPath(z.input.Value())
	if path == "" || z.files == nil {
		return
	}
	selected, err := z.files.SelectFile(path)
	if err != nil {
		z.err = err
		return
	}
	z.selected = &selected
}

func (z uploadZone) View() string {
	var lines []string

	switch {
	case z.uploaded != nil && z.selected == nil && z.input.Value() == "":
		lines = append(lines,
			lipgloss.NewStyle().Foreground(theme.ColorSuccess).Render("✔ ")+z.styles.UploadFile.Render(z.uploaded.Filename)+
				z.styles.UploadSize.Render("  "+z.uploaded.URI),
			z.styles.UploadHint.Render("ctrl+o to analyze another file"),
		)
	case z.selected != nil:
		action := z.styles.Button.Render("Analyze Now") + z.styles.UploadHint.Render("  enter · esc to clear")
		if z.uploading {
			action = lipgloss.NewStyle().Foreground(theme.ColorFocus).Render("Uploading...")
		}
		lines = append(lines,
			z.input.View(),
			"📄 "+z.styles.UploadFile.Render(z.selected.Name)+"  "+z.styles.UploadSize.Render(humanize.Bytes(uint64(z.selected.Size))),
			action,
		)
	default:
		lines = append(lines,
			z.input.View(),
			z.styles.UploadHint.Render("Supports CSV, Parquet, and JSON"),
		)
	}

	if z.err != nil {
		lines = append(lines, z.styles.UploadError.Render(z.err.Error()))
	}

	panel := theme.Pick(z.focused, z.styles.PanelFocused, z.styles.Panel)
	if z.width > 0 {
		panel = panel.Width(z.width - 2)
	}
	return panel.Render(strings.Join(lines, "\n"))
}

// cleanPath undoes the quoting terminals apply to dropped paths
func cleanPath(p string) string {
	p = strings.TrimSpace(p)
	if len(p) >= 2 {
		if (p[0] == '\'' && p[len(p)-1] == '\'') || (p[0] == '"' && p[len(p)-1] == '"') {
			p = p[1 : len(p)-1]
		}
	}
	p = strings.TrimPrefix(p, "file://")
	return strings.ReplaceAll(p, `\ `, " ")
}
