package erased

import (
	"log/slog"
	"maps"
	"reflect"
	"sync/atomic"
)

type TypeId uint32

// Type is the runtime tag attached to every erased value. There is exactly
// one *Type per Go type, so tags can be compared by pointer.
type Type struct {
	Id   TypeId
	Name string
	Type reflect.Type
}

func (t *Type) String() string {
	if t == nil {
		return "<empty>"
	}

	return t.Name
}

// the registry is shared by all stores. stores are not safe for concurrent use,
// but two stores living on different goroutines may still register types
// at the same time.
var types atomic.Pointer[map[reflect.Type]*Type]

func init() {
	types.Store(&map[reflect.Type]*Type{})
}

// TypeOf returns the tag for values of type V, registering it on first use.
func TypeOf[V any]() *Type {
	reflectType := reflect.TypeFor[V]()

	if cached, ok := (*types.Load())[reflectType]; ok {
		return cached
	}

	return ensureType(reflectType)
}

func ensureType(reflectType reflect.Type) *Type {
	for {
		previousTypes := types.Load()
		if cached, ok := (*previousTypes)[reflectType]; ok {
			return cached
		}

		newType := &Type{
			Id:   TypeId(len(*previousTypes) + 1),
			Name: reflectType.String(),
			Type: reflectType,
		}

		newTypes := maps.Clone(*previousTypes)
		newTypes[reflectType] = newType

		if types.CompareAndSwap(previousTypes, &newTypes) {
			slog.Debug(
				"New value type registered",
				slog.String("name", newType.Name),
				slog.Int("id", int(newType.Id)),
			)

			return newType
		}
	}
}
