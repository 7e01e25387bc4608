package gekko

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/gekko3d/gekko-editor/history"
)

var (
	ErrNoComponent        = errors.New("entity has no such component")
	ErrAmbiguousComponent = errors.New("component name matches several types")
	ErrUnknownField       = errors.New("component has no such field")
	ErrBadValue           = errors.New("value does not fit the field")
)

// componentSlot finds the live storage of a component by type name.
// Storage moves when the entity changes archetype, so callers resolve it
// again on every apply.
func componentSlot(ecs *Ecs, eid EntityId, component string) (reflect.Value, error) {
	t, err := ecs.componentTypeByName(component)
	if err != nil {
		return reflect.Value{}, err
	}
	v, ok := ecs.componentValue(eid, t)
	if !ok {
		return reflect.Value{}, errors.Wrapf(ErrNoComponent, "entity %d has no %s", eid, component)
	}
	return v, nil
}

// fieldByPath follows a dotted path of exported struct fields, e.g. "Color.R".
func fieldByPath(v reflect.Value, path string) (reflect.Value, error) {
	for _, name := range strings.Split(path, ".") {
		if v.Kind() != reflect.Struct {
			return reflect.Value{}, errors.Wrapf(ErrUnknownField, "%s: %s is not a struct", path, v.Type())
		}
		sf, ok := v.Type().FieldByName(name)
		if !ok || !sf.IsExported() {
			return reflect.Value{}, errors.Wrapf(ErrUnknownField, "%s", path)
		}
		v = v.FieldByIndex(sf.Index)
	}
	return v, nil
}

// formatValue renders a field the way parseValue reads it back. Floats use
// the shortest exact form so a revert restores the same bits.
func formatValue(v reflect.Value) (string, error) {
	switch v.Kind() {
	case reflect.String:
		return v.String(), nil
	case reflect.Bool:
		return strconv.FormatBool(v.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'g', -1, v.Type().Bits()), nil
	case reflect.Array:
		parts := make([]string, v.Len())
		for i := range parts {
			s, err := formatValue(v.Index(i))
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return strings.Join(parts, ","), nil
	}
	return "", errors.Wrapf(ErrBadValue, "unsupported kind %s", v.Kind())
}

func parseValue(dst reflect.Value, s string) error {
	s = strings.TrimSpace(s)
	switch dst.Kind() {
	case reflect.String:
		dst.SetString(s)
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return errors.Wrap(ErrBadValue, err.Error())
		}
		dst.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, dst.Type().Bits())
		if err != nil {
			return errors.Wrap(ErrBadValue, err.Error())
		}
		dst.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, dst.Type().Bits())
		if err != nil {
			return errors.Wrap(ErrBadValue, err.Error())
		}
		dst.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, dst.Type().Bits())
		if err != nil {
			return errors.Wrap(ErrBadValue, err.Error())
		}
		dst.SetFloat(f)
	case reflect.Array:
		parts := strings.Split(s, ",")
		if len(parts) != dst.Len() {
			return errors.Wrapf(ErrBadValue, "want %d values, got %d", dst.Len(), len(parts))
		}
		for i, p := range parts {
			if err := parseValue(dst.Index(i), p); err != nil {
				return err
			}
		}
	default:
		return errors.Wrapf(ErrBadValue, "unsupported kind %s", dst.Kind())
	}
	return nil
}

type propertyChange struct {
	ecs       *Ecs
	entity    EntityId
	component string
	field     string
	before    string
	after     string
}

func (c *propertyChange) set(value string) error {
	slot, err := componentSlot(c.ecs, c.entity, c.component)
	if err != nil {
		return err
	}
	f, err := fieldByPath(slot, c.field)
	if err != nil {
		return err
	}
	return parseValue(f, value)
}

func (c *propertyChange) Apply() error  { return c.set(c.after) }
func (c *propertyChange) Revert() error { return c.set(c.before) }

// NewSetPropertyString edits one field of a component from its text form,
// as typed into an inspector. component is the Go type name of the
// component, field a dotted path into it. Numeric arrays such as mgl32.Vec3
// take comma separated values.
func NewSetPropertyString(ecs *Ecs, eid EntityId, component, field, value string) (*history.Action, error) {
	slot, err := componentSlot(ecs, eid, component)
	if err != nil {
		return nil, err
	}
	f, err := fieldByPath(slot, field)
	if err != nil {
		return nil, err
	}
	before, err := formatValue(f)
	if err != nil {
		return nil, errors.Wrapf(err, "%s.%s", component, field)
	}
	// Parse into scratch storage first so a bad value never reaches history.
	if err := parseValue(reflect.New(f.Type()).Elem(), value); err != nil {
		return nil, errors.Wrapf(err, "%s.%s = %q", component, field, value)
	}

	change := &propertyChange{
		ecs:       ecs,
		entity:    eid,
		component: component,
		field:     field,
		before:    before,
		after:     value,
	}
	return history.NewAction(fmt.Sprintf("Set %s.%s", component, field), change), nil
}

type blockChange struct {
	ecs       *Ecs
	entity    EntityId
	component string
	before    reflect.Value
	after     reflect.Value
}

func (c *blockChange) set(v reflect.Value) error {
	slot, err := componentSlot(c.ecs, c.entity, c.component)
	if err != nil {
		return err
	}
	fresh, err := snapshot(v)
	if err != nil {
		return errors.Wrapf(err, "copy %s", c.component)
	}
	slot.Set(fresh)
	return nil
}

// snapshot copies a component value so that its exported maps, slices and
// pointers no longer share storage with v. Unexported fields are copied
// shallowly.
func snapshot(v reflect.Value) (reflect.Value, error) {
	data, err := yaml.Marshal(v.Interface())
	if err != nil {
		return reflect.Value{}, err
	}
	out := reflect.New(v.Type())
	out.Elem().Set(v)
	detach(out.Elem())
	if err := yaml.Unmarshal(data, out.Interface()); err != nil {
		return reflect.Value{}, err
	}
	return out.Elem(), nil
}

// detach zeroes the exported reference fields of v so a following decode
// allocates new storage for them.
func detach(v reflect.Value) {
	switch v.Kind() {
	case reflect.Map, reflect.Pointer, reflect.Slice:
		v.Set(reflect.Zero(v.Type()))
	case reflect.Array:
		for i := 0; i < v.Len(); i++ {
			detach(v.Index(i))
		}
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() || f.Tag.Get("yaml") == "-" {
				continue
			}
			detach(v.Field(i))
		}
	}
}

func (c *blockChange) Apply() error  { return c.set(c.after) }
func (c *blockChange) Revert() error { return c.set(c.before) }

// PropertyBlock returns a component as a YAML block, the format
// NewSetPropertyBlock accepts.
func PropertyBlock(ecs *Ecs, eid EntityId, component string) (string, error) {
	slot, err := componentSlot(ecs, eid, component)
	if err != nil {
		return "", err
	}
	out, err := yaml.Marshal(slot.Interface())
	if err != nil {
		return "", errors.Wrapf(err, "encode %s", component)
	}
	return string(out), nil
}

// NewSetPropertyBlock replaces a whole component from a YAML block. Keys
// missing from the block keep their current value; unexported fields are
// never touched.
func NewSetPropertyBlock(ecs *Ecs, eid EntityId, component, block string) (*history.Action, error) {
	slot, err := componentSlot(ecs, eid, component)
	if err != nil {
		return nil, err
	}
	before, err := snapshot(slot)
	if err != nil {
		return nil, errors.Wrapf(err, "copy %s", component)
	}
	base, err := snapshot(before)
	if err != nil {
		return nil, errors.Wrapf(err, "copy %s", component)
	}
	after := reflect.New(slot.Type())
	after.Elem().Set(base)
	if err := yaml.Unmarshal([]byte(block), after.Interface()); err != nil {
		return nil, errors.Wrapf(ErrBadValue, "decode %s: %v", component, err)
	}

	change := &blockChange{
		ecs:       ecs,
		entity:    eid,
		component: component,
		before:    before,
		after:     after.Elem(),
	}
	return history.NewAction(fmt.Sprintf("Edit %s", component), change), nil
}
