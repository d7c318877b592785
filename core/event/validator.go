package event

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	contextType = reflect.TypeFor[context.Context]()
	errorType   = reflect.TypeFor[error]()
)

// descriptor is the reflected shape of an event type. It is computed once per type.
type descriptor struct {
	typ       reflect.Type
	name      string
	runIndex  int
	paramType reflect.Type
	required  bool
	ordered   bool
	orderIdx  int
	err       error
}

// Validator checks an (event, parameter) pair against the event contract before it is stored.
// It is safe for concurrent use.
type Validator struct {
	structs *validator.Validate
	cache   sync.Map // reflect.Type -> *descriptor
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithStructValidator sets the validator used for struct tag checks on parameters.
// Pass nil to disable tag validation and only check the parameter shape.
func WithStructValidator(v *validator.Validate) ValidatorOption {
	return func(val *Validator) {
		val.structs = v
	}
}

// NewValidator creates a Validator. By default parameters are checked against their
// `validate` struct tags.
func NewValidator(opts ...ValidatorOption) *Validator {
	v := &Validator{
		structs: validator.New(validator.WithRequiredStructEnabled()),
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

// Validate reports whether evt may be stored with param. Checks run in order and stop
// at the first failure: event type, order type, parameter type, parameter count,
// missing required parameter.
func (v *Validator) Validate(evt any, param any) error {
	_, _, err := v.check(evt, param, true)
	return err
}

// check validates and returns the event descriptor together with the normalized
// parameter (typed nil pointers become nil). Struct tags are only checked when tags is set.
func (v *Validator) check(evt any, param any, tags bool) (*descriptor, any, error) {
	if evt == nil {
		return nil, nil, fmt.Errorf("%w: got nil", ErrInvalidEventType)
	}
	if rv := reflect.ValueOf(evt); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil, nil, fmt.Errorf("%w: nil %T", ErrInvalidEventType, evt)
	}

	desc := v.describe(reflect.TypeOf(evt))
	if desc.err != nil {
		return nil, nil, desc.err
	}

	param, err := v.checkParameter(param, tags)
	if err != nil {
		return nil, nil, err
	}

	if desc.paramType == nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrParameterCountMismatch, desc.name)
	}

	if param == nil {
		if desc.required {
			return nil, nil, fmt.Errorf("%w: %s takes %s", ErrMissingRequiredParameter, desc.name, desc.paramType)
		}
		return desc, nil, nil
	}

	if pt := reflect.TypeOf(param); !pt.AssignableTo(desc.paramType) {
		return nil, nil, fmt.Errorf("%w: %s takes %s, got %s", ErrInvalidParameterType, desc.name, desc.paramType, pt)
	}

	return desc, param, nil
}

func (v *Validator) checkParameter(param any, tags bool) (any, error) {
	if param == nil {
		return nil, nil
	}

	rv := reflect.ValueOf(param)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, nil
		}
		if rv.Elem().Kind() != reflect.Struct {
			return nil, fmt.Errorf("%w: got %T", ErrInvalidParameterType, param)
		}
	} else if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: got %T", ErrInvalidParameterType, param)
	}

	if tags && v.structs != nil {
		if err := v.structs.Struct(param); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidParameterType, err)
		}
	}

	return param, nil
}

func (v *Validator) describe(t reflect.Type) *descriptor {
	if cached, ok := v.cache.Load(t); ok {
		return cached.(*descriptor)
	}

	desc := reflectDescriptor(t)
	actual, _ := v.cache.LoadOrStore(t, desc)
	return actual.(*descriptor)
}

// reflectDescriptor inspects Run and Order on t. Structural errors are stored on the
// descriptor so repeated stores of a broken type fail without reflecting again.
func reflectDescriptor(t reflect.Type) *descriptor {
	desc := &descriptor{typ: t, name: typeName(t), orderIdx: -1}

	run, ok := t.MethodByName("Run")
	if !ok {
		desc.err = fmt.Errorf("%w: %s has no Run method", ErrInvalidEventType, desc.name)
		return desc
	}

	// Method types obtained from a reflect.Type include the receiver as the first input.
	mt := run.Type
	if mt.NumOut() != 1 || mt.Out(0) != errorType {
		desc.err = fmt.Errorf("%w: %s.Run must return error", ErrInvalidEventType, desc.name)
		return desc
	}
	if mt.NumIn() > 1 && mt.In(1) != contextType {
		desc.err = fmt.Errorf("%w: %s.Run must take context.Context first", ErrInvalidEventType, desc.name)
		return desc
	}

	if order, ok := t.MethodByName("Order"); ok {
		ot := order.Type
		if ot.NumIn() != 1 || ot.NumOut() != 1 || !isInteger(ot.Out(0)) {
			desc.err = fmt.Errorf("%w: %s.Order is %s", ErrInvalidOrderType, desc.name, ot)
			return desc
		}
		desc.ordered = true
		desc.orderIdx = order.Index
	} else if t.Kind() != reflect.Pointer {
		if _, ok := reflect.PointerTo(t).MethodByName("Order"); ok {
			desc.err = fmt.Errorf("%w: %s declares Order on the pointer receiver, store *%s", ErrInvalidOrderType, desc.name, desc.name)
			return desc
		}
	}

	desc.runIndex = run.Index
	if mt.NumIn() == 3 && !mt.IsVariadic() {
		desc.paramType = mt.In(2)
		desc.required = !isNilable(desc.paramType)
	}

	return desc
}

// order calls the event's Order method, if any.
func (d *descriptor) order(evt any) (int, bool) {
	if !d.ordered {
		return 0, false
	}
	out := reflect.ValueOf(evt).Method(d.orderIdx).Call(nil)
	return int(out[0].Int()), true
}

// run invokes evt.Run(ctx, param). A nil param is passed as the zero value of the
// parameter type.
func (d *descriptor) run(ctx context.Context, evt any, param any) error {
	pv := reflect.Zero(d.paramType)
	if param != nil {
		pv = reflect.ValueOf(param)
	}

	out := reflect.ValueOf(evt).Method(d.runIndex).Call([]reflect.Value{reflect.ValueOf(ctx), pv})
	if err, ok := out[0].Interface().(error); ok {
		return err
	}
	return nil
}

func isInteger(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	default:
		return false
	}
}

func isNilable(t reflect.Type) bool {
	return t.Kind() == reflect.Pointer || t.Kind() == reflect.Interface
}
