package validator

import (
	"reflect"

	"github.com/gin-gonic/gin/binding"
)

// Pipe adapts a Validator to gin's binding.StructValidator. Errors are
// translated into the pipe's language and returned as *ValidationErrors.
type Pipe struct {
	v    *Validator
	lang string
}

var _ binding.StructValidator = (*Pipe)(nil)

// NewPipe creates a validation pipe. A nil validator reads "binding" tags; an
// unsupported or empty language falls back to DefaultLanguage.
func NewPipe(v *Validator, lang string) *Pipe {
	if v == nil {
		v = NewBinding()
	}
	if lang == "" || !v.SupportsLanguage(lang) {
		lang = DefaultLanguage
	}
	return &Pipe{v: v, lang: lang}
}

// Language returns the language errors are translated into.
func (p *Pipe) Language() string {
	return p.lang
}

// ValidateStruct implements binding.StructValidator.
func (p *Pipe) ValidateStruct(obj any) error {
	if obj == nil {
		return nil
	}

	value := reflect.ValueOf(obj)
	switch value.Kind() {
	case reflect.Ptr:
		if value.IsNil() {
			return nil
		}
		if value.Elem().Kind() != reflect.Struct {
			return p.ValidateStruct(value.Elem().Interface())
		}
		return p.validateOne(obj)
	case reflect.Struct:
		return p.validateOne(obj)
	case reflect.Slice, reflect.Array:
		merged := &ValidationErrors{}
		for i := 0; i < value.Len(); i++ {
			if err := p.ValidateStruct(value.Index(i).Interface()); err != nil {
				if ve, ok := err.(*ValidationErrors); ok {
					merged.Errors = append(merged.Errors, ve.Errors...)
					continue
				}
				return err
			}
		}
		if merged.HasErrors() {
			return merged
		}
		return nil
	default:
		return nil
	}
}

func (p *Pipe) validateOne(obj any) error {
	if ve := p.v.ValidateWithLang(obj, p.lang); ve.HasErrors() {
		return ve
	}
	return nil
}

// Engine implements binding.StructValidator.
func (p *Pipe) Engine() any {
	return p.v.Engine()
}

// Install makes the pipe gin's global binding validator.
func Install(p *Pipe) {
	binding.Validator = p
}
