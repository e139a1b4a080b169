package manifest

import (
	"fmt"

	"github.com/launchbynttdata/launch-meta-gen/internal/domain/semtag"
)

// Pair holds the BP and RP records, which move in lockstep on sync.
type Pair struct {
	BP Record
	RP Record
}

// LoadPair loads both manifests using pathFor to locate each pack.
func LoadPair(pathFor func(Pack) string) Pair {
	return Pair{
		BP: Load(PackBP, pathFor(PackBP)),
		RP: Load(PackRP, pathFor(PackRP)),
	}
}

// Get returns the record for pack.
func (p *Pair) Get(pack Pack) *Record {
	if pack == PackBP {
		return &p.BP
	}
	return &p.RP
}

// ApplyVersion stamps version onto every loaded record, pinning each record's
// dependency on the other pack. Cross-pack uuids are read before any edit.
// It returns the packs that were updated, in processing order.
func (p *Pair) ApplyVersion(version semtag.Version) ([]Pack, error) {
	uuids := make(map[Pack]string, len(Packs))
	for _, pack := range Packs {
		if uuid, ok := p.Get(pack).UUID(); ok {
			uuids[pack] = uuid
		}
	}

	var updated []Pack
	for _, pack := range Packs {
		record := p.Get(pack)
		if !record.Loaded {
			continue
		}
		if err := record.ApplyVersion(version, uuids[pack.Other()]); err != nil {
			return updated, fmt.Errorf("%s manifest: %w", pack, err)
		}
		updated = append(updated, pack)
	}
	return updated, nil
}
