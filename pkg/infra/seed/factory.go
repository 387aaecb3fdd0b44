package seed

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Meta carries caller-supplied attributes into a factory.
type Meta map[string]interface{}

// String returns the string value of key, or "" when absent.
func (m Meta) String(key string) string {
	s, _ := m[key].(string)
	return s
}

// Factory produces new row values, typically pointers to gorm models.
type Factory interface {
	Name() string
	Make(meta Meta) (interface{}, error)
}

type factoryFunc struct {
	name string
	fn   func(Meta) (interface{}, error)
}

func (f factoryFunc) Name() string                        { return f.name }
func (f factoryFunc) Make(meta Meta) (interface{}, error) { return f.fn(meta) }

// NewFactory adapts fn into a Factory called name.
func NewFactory(name string, fn func(Meta) (interface{}, error)) Factory {
	return factoryFunc{name: name, fn: fn}
}

// Factories is the name-indexed set of factories handed to seeders.
type Factories struct {
	byName map[string]Factory
	order  []string
}

// NewFactories indexes list by name. Duplicate names are rejected.
func NewFactories(list ...Factory) (*Factories, error) {
	f := &Factories{byName: make(map[string]Factory, len(list))}
	for _, factory := range list {
		if factory == nil {
			continue
		}
		name := factory.Name()
		if _, dup := f.byName[name]; dup {
			return nil, fmt.Errorf("duplicate factory %q", name)
		}
		f.byName[name] = factory
		f.order = append(f.order, name)
	}
	return f, nil
}

// Names returns the factory names in registration order.
func (f *Factories) Names() []string {
	return append([]string(nil), f.order...)
}

// Get returns the factory called name.
func (f *Factories) Get(name string) (Factory, bool) {
	factory, ok := f.byName[name]
	return factory, ok
}

// Make builds one value with the factory called name.
func (f *Factories) Make(name string, meta Meta) (interface{}, error) {
	factory, ok := f.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFactory, name)
	}
	v, err := factory.Make(meta)
	if err != nil {
		return nil, fmt.Errorf("factory %q: %w", name, err)
	}
	return v, nil
}

// SaveMany makes count values with the factory called name and inserts
// them through tx.
func (f *Factories) SaveMany(ctx context.Context, tx *gorm.DB, name string, count int, meta Meta) ([]interface{}, error) {
	saved := make([]interface{}, 0, count)
	for i := 0; i < count; i++ {
		v, err := f.Make(name, meta)
		if err != nil {
			return saved, err
		}
		if err := tx.WithContext(ctx).Create(v).Error; err != nil {
			return saved, fmt.Errorf("insert %q row: %w", name, err)
		}
		saved = append(saved, v)
	}
	return saved, nil
}
