package power

import "github.com/voltkraft/gridexport/pkg/schema"

// Role distinguishes how an element's reactive-capability flag is to be
// read.
type Role string

const (
	RoleConsumer Role = "CONSUMER"
	RoleProducer Role = "PRODUCER"
)

type directionKey struct {
	role  Role
	recap bool
}

// directionTable fixes the power-factor direction convention in one
// place. The recap flag marks a capacitive characteristic; for consumers
// that means over-excited, while for producers an inductive (recap clear)
// characteristic is over-excited. Keep this table in sync with
// direction_test.go, which enumerates all four cases.
var directionTable = map[directionKey]schema.PowerFactorDirection{
	{RoleConsumer, false}: schema.DirectionUE,
	{RoleConsumer, true}:  schema.DirectionOE,
	{RoleProducer, false}: schema.DirectionOE,
	{RoleProducer, true}:  schema.DirectionUE,
}

// DirectionFor returns the power-factor direction for an element role and
// its reactive-capability flag.
func DirectionFor(role Role, recap bool) schema.PowerFactorDirection {
	return directionTable[directionKey{role, recap}]
}
