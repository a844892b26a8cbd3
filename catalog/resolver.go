package catalog

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// OverlaySource fetches raw overlay data for a map. Satisfied by robot.Client.
type OverlaySource interface {
	GetMapOverlays(mapID string) ([]byte, error)
}

type cacheEntry struct {
	points    []Point
	fetchedAt time.Time
}

// Resolver fetches, caches and classifies map points. The cache is owned
// explicitly by the resolver with a fixed TTL; Refresh forces invalidation
// after structural map edits.
type Resolver struct {
	source OverlaySource
	ttl    time.Duration

	mu    sync.Mutex
	cache map[string]cacheEntry
}

func NewResolver(source OverlaySource, ttl time.Duration) *Resolver {
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &Resolver{
		source: source,
		ttl:    ttl,
		cache:  make(map[string]cacheEntry),
	}
}

// Points returns all classified points for a map, fetching on cache miss or expiry.
func (r *Resolver) Points(mapID string) ([]Point, error) {
	r.mu.Lock()
	entry, ok := r.cache[mapID]
	r.mu.Unlock()
	if ok && time.Since(entry.fetchedAt) < r.ttl {
		return entry.points, nil
	}

	data, err := r.source.GetMapOverlays(mapID)
	if err != nil {
		// Serve stale points over nothing when the device is unreachable.
		if ok {
			log.Printf("catalog: overlay fetch for %s failed, serving stale cache: %v", mapID, err)
			return entry.points, nil
		}
		return nil, fmt.Errorf("fetch overlays for %s: %w", mapID, err)
	}
	points, err := parseOverlay(data)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.cache[mapID] = cacheEntry{points: points, fetchedAt: time.Now()}
	r.mu.Unlock()
	return points, nil
}

// Refresh drops all cached maps, forcing the next lookup to refetch.
func (r *Resolver) Refresh() {
	r.mu.Lock()
	r.cache = make(map[string]cacheEntry)
	r.mu.Unlock()
}

// PointByID returns the named point, or nil if the map does not contain it.
func (r *Resolver) PointByID(mapID, id string) (*Point, error) {
	points, err := r.Points(mapID)
	if err != nil {
		return nil, err
	}
	for i := range points {
		if points[i].ID == id {
			return &points[i], nil
		}
	}
	return nil, nil
}

// PointsByRole returns all points on a map with the given role.
func (r *Resolver) PointsByRole(mapID string, role Role) ([]Point, error) {
	points, err := r.Points(mapID)
	if err != nil {
		return nil, err
	}
	var out []Point
	for _, p := range points {
		if p.Role == role {
			out = append(out, p)
		}
	}
	return out, nil
}

// ChargerPoint returns the map's charger point, or nil if none is mapped.
func (r *Resolver) ChargerPoint(mapID string) (*Point, error) {
	points, err := r.PointsByRole(mapID, RoleCharger)
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, nil
	}
	return &points[0], nil
}

// DockingPointFor resolves the approach position for a base point. Exact
// naming matches ("<base>_load_docking", then "<base>_docking") are preferred;
// failing those, any docking point on the map is used and the degradation is
// logged. Coordinates are never synthesized: if no docking point exists at
// all, nil is returned and the caller reports absence.
func (r *Resolver) DockingPointFor(mapID, baseID string) (*Point, error) {
	points, err := r.Points(mapID)
	if err != nil {
		return nil, err
	}

	for _, candidate := range []string{baseID + "_load_docking", baseID + "_docking"} {
		for i := range points {
			if points[i].ID == candidate {
				return &points[i], nil
			}
		}
	}

	for i := range points {
		if points[i].Role.IsDocking() {
			log.Printf("catalog: no exact docking point for %q on map %s, degrading to %q", baseID, mapID, points[i].ID)
			return &points[i], nil
		}
	}
	return nil, nil
}
