package wildcard

import "github.com/simaogato/squad-architect-backend/internal/domain"

// squad is the set of admitted players while a rebuild runs
type squad struct {
	byPos map[domain.Position][]*domain.Player
	ids   map[int]bool
	clubs map[int]int
	cost  int
}

func newSquad() *squad {
	return &squad{
		byPos: make(map[domain.Position][]*domain.Player, len(domain.Positions)),
		ids:   make(map[int]bool, domain.SquadSize),
		clubs: make(map[int]int),
	}
}

func (s *squad) size() int {
	return len(s.ids)
}

func (s *squad) has(id int) bool {
	return s.ids[id]
}

func (s *squad) canAdmit(p *domain.Player) bool {
	return !s.ids[p.ID] &&
		len(s.byPos[p.Position]) < p.Position.SquadQuota() &&
		s.clubs[p.ClubID] < domain.MaxPerClub
}

func (s *squad) admit(p *domain.Player) {
	s.byPos[p.Position] = append(s.byPos[p.Position], p)
	s.ids[p.ID] = true
	s.clubs[p.ClubID]++
	s.cost += p.Cost
}

// weakest returns the admitted player with the lowest EP.
// On ties the later one in position order wins.
func (s *squad) weakest() *domain.Player {
	var weakest *domain.Player
	for _, pos := range domain.Positions {
		for _, p := range s.byPos[pos] {
			if weakest == nil || p.EP() <= weakest.EP() {
				weakest = p
			}
		}
	}
	return weakest
}

// replace swaps out for in, keeping in's place in the position list
func (s *squad) replace(out, in *domain.Player) {
	list := s.byPos[out.Position]
	for i, p := range list {
		if p.ID == out.ID {
			list[i] = in
			break
		}
	}
	delete(s.ids, out.ID)
	s.clubs[out.ClubID]--
	s.cost -= out.Cost

	s.ids[in.ID] = true
	s.clubs[in.ClubID]++
	s.cost += in.Cost
}

// players lists the squad in position order (GK, DEF, MID, FWD), admission order within a position
func (s *squad) players() []*domain.Player {
	all := make([]*domain.Player, 0, domain.SquadSize)
	for _, pos := range domain.Positions {
		all = append(all, s.byPos[pos]...)
	}
	return all
}
