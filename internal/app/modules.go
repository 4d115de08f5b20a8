package app

import (
	"github.com/specialistvlad/paragrid/internal/registry"
	"github.com/specialistvlad/paragrid/modules/line"
	"github.com/specialistvlad/paragrid/modules/point"
	"github.com/specialistvlad/paragrid/modules/scalar"
)

// coreModules is the definitive list of all object types that are compiled
// into the paragrid binary.
var coreModules = []registry.Module{
	&point.Module{},
	&line.Module{},
	&scalar.Module{},
}
