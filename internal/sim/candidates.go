package sim

import (
	"fmt"

	"github.com/google/uuid"
)

var candidateRoles = []Role{
	RoleManager, RoleSalesperson, RoleAccountant, RoleMarketer,
	RoleTechnician, RoleWorker, RoleLawyer, RoleHR,
}

var candidateNames = []string{
	"Riley Chen", "Morgan Diaz", "Casey Novak", "Jamie Okafor",
	"Taylor Brandt", "Quinn Ferreira", "Avery Sato", "Rowan Petrov",
	"Dana Lindqvist", "Skyler Mbeki", "Jordan Vance", "Reese Kowalski",
}

// GenerateCandidates rolls a hiring pool against a country's salary table.
// Skill draws land in [30, 90); asking salary scales with skill over the
// country base for the role.
func GenerateCandidates(econ CountryEconomy, src Source, n int) []Employee {
	out := make([]Employee, 0, n)
	for i := 0; i < n; i++ {
		role := candidateRoles[int(src.Float64()*float64(len(candidateRoles)))%len(candidateRoles)]
		level := 30 + src.Float64()*60
		base := econ.BaseSalaries[role]
		if base <= 0 {
			base = 2_500
		}
		salary := roundMoney(float64(base) * (0.7 + level/100))
		name := candidateNames[int(src.Float64()*float64(len(candidateNames)))%len(candidateNames)]
		out = append(out, Employee{
			ID:   uuid.NewString(),
			Name: fmt.Sprintf("%s (%s)", name, role),
			Role: role,
			Skills: SkillSet{
				Efficiency:   clampStat(level + (src.Float64()*20 - 10)),
				SalesAbility: clampStat(level + (src.Float64()*20 - 10)),
				Technical:    clampStat(level + (src.Float64()*20 - 10)),
				Management:   clampStat(level + (src.Float64()*20 - 10)),
				Creativity:   clampStat(level + (src.Float64()*20 - 10)),
			},
			Salary:       salary,
			Satisfaction: 70,
			Productivity: clampStat(level),
		})
	}
	return out
}
