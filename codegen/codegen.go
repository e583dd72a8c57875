package codegen

import (
	"bytes"
	"fmt"
	"go/token"
	"strings"
	"text/template"
	"unicode"

	"github.com/milk9111/sheetsmith/anim"
	"golang.org/x/tools/imports"
)

// Binding ties an animation kind to a flipbook name.
type Binding struct {
	Kind     anim.Kind
	Flipbook string
}

// Spec describes one generated character file.
type Spec struct {
	Package   string
	Name      string
	Texture   string
	Flipbooks []Binding
}

var characterTmpl = template.Must(template.New("character").Parse(`// Code generated by sheetsmith. DO NOT EDIT.

package {{.Package}}

import "github.com/milk9111/sheetsmith/anim"

// {{.Name}}Texture is the sprite sheet the {{.Name}} flipbooks were cut from.
const {{.Name}}Texture = {{printf "%q" .Texture}}

// {{.Name}} holds the flipbook names for each animation.
type {{.Name}} struct {
	Texture   string
	Flipbooks map[anim.Kind]string
}

func New{{.Name}}() *{{.Name}} {
	return &{{.Name}}{
		Texture: {{.Name}}Texture,
		Flipbooks: map[anim.Kind]string{
{{- range .Flipbooks}}
			anim.{{.Kind}}: {{printf "%q" .Flipbook}},
{{- end}}
		},
	}
}

// Flipbook returns the flipbook bound to kind.
func (c *{{.Name}}) Flipbook(kind anim.Kind) (string, bool) {
	name, ok := c.Flipbooks[kind]
	return name, ok
}
`))

// Render executes the character template and formats the result.
func Render(s Spec) ([]byte, error) {
	if !token.IsIdentifier(s.Package) {
		return nil, fmt.Errorf("codegen: invalid package name %q", s.Package)
	}
	if !token.IsIdentifier(s.Name) || !token.IsExported(s.Name) {
		return nil, fmt.Errorf("codegen: invalid character name %q", s.Name)
	}
	for _, b := range s.Flipbooks {
		if b.Kind == anim.Unknown {
			return nil, fmt.Errorf("codegen: %s: cannot bind Unknown rows", s.Name)
		}
	}

	var buf bytes.Buffer
	if err := characterTmpl.Execute(&buf, s); err != nil {
		return nil, fmt.Errorf("codegen: execute template: %w", err)
	}

	out, err := imports.Process(FileName(s.Name), buf.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("codegen: format %s: %w", s.Name, err)
	}
	return out, nil
}

// Character renders a character with the given kind bindings. Unknown
// rows are skipped; the first binding for a kind wins.
func Character(pkg, characterName, textureName string, flipbooks []Binding) ([]byte, error) {
	spec := Spec{
		Package: pkg,
		Name:    CharacterName(characterName),
		Texture: textureName,
	}
	seen := make(map[anim.Kind]bool, len(flipbooks))
	for _, b := range flipbooks {
		if b.Kind == anim.Unknown || seen[b.Kind] {
			continue
		}
		seen[b.Kind] = true
		spec.Flipbooks = append(spec.Flipbooks, b)
	}
	return Render(spec)
}

// CharacterName turns a texture-style name such as "Warrior_Blue" into an
// exported Go identifier ("WarriorBlue").
func CharacterName(s string) string {
	var b strings.Builder
	upper := true
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	name := b.String()
	if name == "" {
		return "Character"
	}
	if !unicode.IsLetter([]rune(name)[0]) {
		name = "C" + name
	}
	return name
}

// FileName is the snake_case Go file name for a character, e.g.
// "WarriorBlue" -> "warrior_blue.go".
func FileName(characterName string) string {
	var b strings.Builder
	runes := []rune(CharacterName(characterName))
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && !unicode.IsUpper(runes[i-1]) {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String() + ".go"
}
