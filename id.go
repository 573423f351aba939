package hookchain

import "github.com/r-bar/hookchain/id"

// ID is the primary identifier type for all hookchain entities.
type ID = id.ID

// Prefix identifies the entity type encoded in a TypeID.
type Prefix = id.Prefix
