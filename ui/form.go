package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/measure/internal/convert"
)

// form field indices
const (
	fieldCategory = iota
	fieldFrom
	fieldTo
	fieldValue
	fieldCount
)

var errNotANumber = errors.New("enter a number")

// form holds the conversion inputs. Unit selections are indices into the
// current category's unit list.
type form struct {
	category int
	from     int
	to       int
	value    textinput.Model
	focus    int
}

func newForm() form {
	f := form{focus: fieldCategory}
	f.value = newValueInput(f.Category())
	return f
}

// newValueInput builds the numeric field for c. Values below the category's
// lower bound set the input's Err and block submission.
func newValueInput(c convert.Category) textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = convert.FormatValue(c.LowerBound())
	ti.CharLimit = 32
	ti.Width = 20
	ti.Validate = func(s string) error {
		_, err := parseValue(c, s)
		return err
	}
	return ti
}

// parseValue reads the field contents. An empty field stands for the
// category's default, which is its lower bound.
func parseValue(c convert.Category, s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return c.LowerBound(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errNotANumber
	}
	if err := c.Validate(v); err != nil {
		return 0, err
	}
	return v, nil
}

func (f form) Category() convert.Category {
	return convert.Categories[f.category]
}

func (f form) FromUnit() string {
	return f.Category().Units()[f.from]
}

func (f form) ToUnit() string {
	return f.Category().Units()[f.to]
}

// Value returns the parsed value, or the validation error shown by the field.
func (f form) Value() (float64, error) {
	return parseValue(f.Category(), f.value.Value())
}

// setCategory switches categories and resets the dependent fields.
func (f *form) setCategory(i int) bool {
	if i < 0 || i >= len(convert.Categories) || i == f.category {
		return false
	}
	f.category = i
	f.from, f.to = 0, 0
	f.value = newValueInput(f.Category())
	return true
}

// cycle moves the focused selector by delta, wrapping around. It reports
// whether the category changed.
func (f *form) cycle(delta int) (categoryChanged bool) {
	wrap := func(i, n int) int { return (i + delta + n) % n }
	switch f.focus {
	case fieldCategory:
		return f.setCategory(wrap(f.category, len(convert.Categories)))
	case fieldFrom:
		f.from = wrap(f.from, len(f.Category().Units()))
	case fieldTo:
		f.to = wrap(f.to, len(f.Category().Units()))
	}
	return false
}

func (f *form) nextField() {
	f.blurCurrent()
	f.focus = (f.focus + 1) % fieldCount
	f.focusCurrent()
}

func (f *form) prevField() {
	f.blurCurrent()
	f.focus = (f.focus - 1 + fieldCount) % fieldCount
	f.focusCurrent()
}

func (f *form) blurCurrent() {
	if f.focus == fieldValue {
		f.value.Blur()
	}
}

func (f *form) focusCurrent() {
	if f.focus == fieldValue {
		f.value.Focus()
		f.value.CursorEnd()
	}
}

func (f form) view() string {
	categories := make([]string, len(convert.Categories))
	for i, c := range convert.Categories {
		categories[i] = c.String()
	}
	units := f.Category().Units()

	value := f.value.View()
	if f.value.Err != nil {
		value += "\n" + fieldLabel("", false) + "  " + errorStyle.Render(f.value.Err.Error())
	}

	return fmt.Sprintf(
		"%s\n\n%s  %s\n\n%s  %s\n\n%s  %s\n\n%s  %s",
		titleStyle.Render("Unit Converter"),
		fieldLabel("Type:", f.focus == fieldCategory), renderRadio(categories, f.category, f.focus == fieldCategory),
		fieldLabel("From:", f.focus == fieldFrom), renderRadio(units, f.from, f.focus == fieldFrom),
		fieldLabel("To:", f.focus == fieldTo), renderRadio(units, f.to, f.focus == fieldTo),
		fieldLabel("Value:", f.focus == fieldValue), value,
	)
}

func fieldLabel(label string, focused bool) string {
	style := lipgloss.NewStyle().Width(6)
	if focused {
		style = style.Bold(true).Foreground(accent)
	} else {
		style = style.Foreground(lipgloss.Color("252"))
	}
	return style.Render(label)
}

func renderRadio(options []string, selected int, focused bool) string {
	parts := make([]string, 0, len(options))
	for i, opt := range options {
		if i == selected {
			style := selectedStyle
			if focused {
				style = style.Foreground(accent)
			}
			parts = append(parts, style.Render("● "+opt))
		} else {
			parts = append(parts, dimStyle.Render("○ "+opt))
		}
	}
	return strings.Join(parts, "  ")
}
