package store

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// editableFields lists the card fields the interactive editor walks
// through, in prompt order, keyed by JSON field name.
var editableFields = []struct {
	key   string
	label string
}{
	{"name", "Name"},
	{"jobTitle", "Job title"},
	{"company", "Company"},
	{"email", "Email"},
	{"phone", "Phone"},
	{"website", "Website"},
	{"font", "Font (inter/roboto/lora/poppins/playfair/mono)"},
	{"color", "Color (white/black/navy/teal/coral/gold/slate)"},
	{"bgcolor", "Background color"},
	{"align", "Alignment (left/center/right)"},
	{"effect", "Effect (none/gloss/foil/emboss/shadow)"},
	{"styleVariant", "Style (default/modern/minimalist)"},
}

// PromptCardEdits walks the editable fields on stdin. An empty input keeps
// the current value. Every entered value is applied as a single-field
// patch, so edits merge instead of replacing the card.
func PromptCardEdits(s *CardStore) {
	scanner := bufio.NewScanner(os.Stdin)
	current := s.Current()
	values := PatchFromCard(current)

	for _, f := range editableFields {
		fmt.Printf("%s [%v]: ", f.label, values[f.key])
		if !scanner.Scan() {
			return
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		s.SetCurrent(map[string]any{f.key: input})
	}
}
