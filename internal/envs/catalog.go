package envs

import (
	"github.com/roach88/toolbench/internal/envs/fundops"
	"github.com/roach88/toolbench/internal/envs/hrops"
	"github.com/roach88/toolbench/internal/envs/incidents"
)

func init() {
	RegisterCatalogue(fundops.Name, fundops.Catalogue)
	RegisterCatalogue(incidents.Name, incidents.Catalogue)
	RegisterCatalogue(hrops.Name, hrops.Catalogue)
}
