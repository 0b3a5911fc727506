package rendezvous

import (
	orb "github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Features returns the rendezvous chain as GeoJSON, one feature per meeting
// location plus the line joining the two sides. Handy for viewing plans in GIS
// tools.
func (r *Rendezvous) Features() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for hop, cur := 0, r; cur != nil; hop, cur = hop+1, cur.ParentsRV {
		child := geojson.NewFeature(cur.ChildLocation)
		child.Properties["side"] = "child"
		child.Properties["hop"] = hop
		child.Properties["meeting"] = cur.MeetingTime
		child.Properties["wait"] = cur.WaitTime
		fc.Append(child)

		if cur.ParentLocation == cur.ChildLocation {
			continue
		}
		parent := geojson.NewFeature(cur.ParentLocation)
		parent.Properties["side"] = "parent"
		parent.Properties["hop"] = hop
		fc.Append(parent)

		link := geojson.NewFeature(orb.LineString{cur.ChildLocation, cur.ParentLocation})
		link.Properties["hop"] = hop
		fc.Append(link)
	}
	return fc
}

// Features returns the candidates and links of the graph as GeoJSON. Links are
// emitted once, from the lower indexed endpoint.
func (g *CommGraph) Features() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	index := make(map[orb.Point]int, len(g.Candidates))
	for i, c := range g.Candidates {
		index[c.Location] = i
		f := geojson.NewFeature(c.Location)
		f.Properties["links"] = len(c.Links)
		f.Properties["utility"] = c.Utility
		f.Properties["base"] = c.Location == g.Base
		fc.Append(f)
	}
	for i, c := range g.Candidates {
		for _, l := range c.Links {
			if j, ok := index[l.Remote]; !ok || j < i {
				continue
			}
			f := geojson.NewFeature(orb.LineString{l.Local, l.Remote})
			f.Properties["obstacles"] = l.Obstacles
			f.Properties["toBase"] = l.Remote == g.Base
			fc.Append(f)
		}
	}
	return fc
}
