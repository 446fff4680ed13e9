package game

import (
	"fmt"

	"crowdquiz-service/internal/domain"
	"crowdquiz-service/internal/view"
)

// topNFilter is the elimination cut between rounds: the best keepTop scorers
// keep playing, everyone else becomes a judge for the turn-based rounds that
// follow. The cut happens once; revisiting the state shows the same result.
type topNFilter struct {
	baseState
	keepTop    int
	alreadyRan bool
	kept       []string
	dropped    []string
}

// NewTopNFilter registers the elimination cut.
func NewTopNFilter(g *Game, def domain.StateDef) error {
	if def.KeepTop <= 0 {
		return fmt.Errorf("topnfilter: keep_top must be positive")
	}
	s := &topNFilter{baseState: newBaseState(g, "topnfilter"), keepTop: def.KeepTop}
	g.AddState(s)
	return nil
}

func (s *topNFilter) BeginActive() {
	if s.alreadyRan {
		return
	}
	s.alreadyRan = true

	for _, p := range s.game.playerDataDumpLocked() {
		if !p.IsPlaying {
			continue
		}
		if len(s.kept) < s.keepTop {
			s.kept = append(s.kept, p.Name)
		} else {
			s.dropped = append(s.dropped, p.Name)
		}
	}
	s.game.setIsPlayingLocked(s.dropped, false)
}

func (s *topNFilter) StateMsg() domain.GameDataMsg {
	psi := make(map[string]domain.Info)
	for _, name := range s.dropped {
		psi[name] = domain.Info{"eliminated": true}
	}
	return domain.GameDataMsg{
		GeneralInfo: domain.Info{
			"still_playing": s.kept,
			"eliminated":    s.dropped,
		},
		PlayerInfo: psi,
	}
}

func (s *topNFilter) BigScreenWidgets() *view.Snippets {
	return view.NewSnippets().AddHTML("topnfilter_bigscreen").AddJS("topnfilter_bigscreen")
}
