package timeline

import (
	"encoding/json"
	"strings"

	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/killallgit/entropy/pkg/logger"
)

// FormatArgs pretty-prints tool arguments as indented JSON with sorted keys
func FormatArgs(args map[string]any, color bool) string {
	if len(args) == 0 {
		return ""
	}
	raw, err := json.MarshalIndent(args, "", "  ")
	if err != nil {
		return ""
	}
	if !color {
		return string(raw)
	}
	return highlightJSON(string(raw))
}

func highlightJSON(src string) string {
	log := logger.WithComponent("timeline")

	lexer := lexers.Get("json")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, src)
	if err != nil {
		log.Debug("failed to tokenize args", "error", err)
		return src
	}
	var b strings.Builder
	if err := formatter.Format(&b, styles.Get("monokai"), iterator); err != nil {
		log.Debug("failed to format args", "error", err)
		return src
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatResult renders a tool result: strings verbatim, anything else as
// compact JSON, truncated to max runes when max > 0.
func FormatResult(result any, max int) string {
	var s string
	switch v := result.(type) {
	case nil:
		return ""
	case string:
		s = v
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		s = string(raw)
	}

	r := []rune(s)
	if max > 0 && len(r) > max {
		return string(r[:max]) + "…"
	}
	return s
}
