package registry

import (
	"github.com/cadwire/cadwire-go/pkg/schema"
	"github.com/cadwire/cadwire-go/pkg/tag"
)

// Template derives a canonical minimal tag sequence for a type from its
// schema: the type tag, a handle placeholder, then every required
// attribute with a declared default, in schema declaration order.
// Optional and computed attributes stay absent; they materialize on
// first Set.
func Template(typ string, sch *schema.Schema) tag.Sequence {
	tpl := tag.Sequence{
		{Code: tag.CodeType, Value: typ},
		{Code: tag.CodeHandle, Value: tag.NullHandle},
	}
	for pos, def := range sch.Subclasses() {
		if pos > 0 {
			tpl = append(tpl, tag.Tag{Code: tag.CodeSubclassMarker, Value: def.Name})
		}
		for i := range def.Attrs {
			a := &def.Attrs[i]
			if a.Code == tag.CodeHandle || a.Code == tag.CodeDimstyleHandle {
				continue
			}
			if a.Optional || a.IsComputed() || a.Default == nil {
				continue
			}
			tpl = append(tpl, tag.MustMake(a.Code, a.Default))
		}
	}
	return tpl
}
