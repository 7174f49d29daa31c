package helper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/seitarof/gen-ext/internal/introspect"
	"github.com/seitarof/gen-ext/internal/yail"
)

// ErrAmbiguousDefault is returned when more than one constant is marked default.
var ErrAmbiguousDefault = errors.New("more than one default option")

// Resolver builds helpers and caches option-list data per enum type for
// the lifetime of one run. It is safe for concurrent use.
type Resolver struct {
	introspector introspect.Introspector

	mu    sync.Mutex
	cache map[string]*OptionListData
	group singleflight.Group
}

// NewResolver returns a resolver loading enums through in.
func NewResolver(in introspect.Introspector) *Resolver {
	return &Resolver{introspector: in, cache: map[string]*OptionListData{}}
}

// Resolve returns the helper attached to target, or nil when none applies.
func (r *Resolver) Resolve(ctx context.Context, target Target) (*Helper, error) {
	kind, enumType, ok := Classify(target)
	if !ok {
		return nil, nil
	}
	if kind == Asset {
		return &Helper{Kind: Asset, Data: *target.Asset}, nil
	}
	data, err := r.OptionList(ctx, yail.QualifiedName(enumType))
	if err != nil {
		return nil, err
	}
	return &Helper{Kind: OptionList, Data: data}, nil
}

// OptionList returns the cached option-list data for fqn, loading it on
// first use. Every caller receives the same instance.
func (r *Resolver) OptionList(ctx context.Context, fqn string) (*OptionListData, error) {
	r.mu.Lock()
	if data, ok := r.cache[fqn]; ok {
		r.mu.Unlock()
		return data, nil
	}
	r.mu.Unlock()

	v, err, _ := r.group.Do(fqn, func() (any, error) {
		r.mu.Lock()
		if data, ok := r.cache[fqn]; ok {
			r.mu.Unlock()
			return data, nil
		}
		r.mu.Unlock()

		data, err := r.load(ctx, fqn)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.cache[fqn] = data
		r.mu.Unlock()
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*OptionListData), nil
}

// Len returns the number of cached enum types.
func (r *Resolver) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cache)
}

func (r *Resolver) load(ctx context.Context, fqn string) (*OptionListData, error) {
	ref, err := introspect.ParseRef(fqn)
	if err != nil {
		return nil, err
	}
	enum, err := r.introspector.Introspect(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("load option list %s: %w", fqn, err)
	}

	def, err := defaultOption(enum)
	if err != nil {
		return nil, fmt.Errorf("option list %s: %w", fqn, err)
	}

	opts := make([]Option, len(enum.Constants))
	for i, c := range enum.Constants {
		opts[i] = Option{
			Name:        c.Name,
			Value:       c.Value,
			Deprecated:  c.Deprecated,
			Description: "Option for " + c.Name,
		}
	}
	return &OptionListData{
		ClassName:      fqn,
		Key:            ref.Name,
		Tag:            ref.Name,
		UnderlyingType: enum.UnderlyingType,
		DefaultOpt:     def,
		Options:        opts,
	}, nil
}

func defaultOption(enum *introspect.Enum) (string, error) {
	if len(enum.Constants) == 0 {
		return "", introspect.ErrNotEnum
	}
	var marked []string
	for _, c := range enum.Constants {
		if c.Default {
			marked = append(marked, c.Name)
		}
	}
	switch len(marked) {
	case 0:
		return enum.Constants[0].Name, nil
	case 1:
		return marked[0], nil
	default:
		return "", fmt.Errorf("%w: %s", ErrAmbiguousDefault, strings.Join(marked, ", "))
	}
}
