package sim

// AdvanceLife applies one quarter of wear to the player's personal stats.
// Energy resets each quarter; everything else drifts with financial and macro
// pressure, then buffs tick down and expire.
func AdvanceLife(life PersonalLife, cash int64, econ CountryEconomy, src Source) PersonalLife {
	life.Energy = 100

	if cash < 0 {
		life.Happiness -= 10
		life.Health -= 2
		life.Sanity -= 3
	} else if cash > HighWealthCash {
		life.Happiness += 2
	}
	if econ.Unemployment > 10 {
		life.Happiness -= 2
		life.Sanity -= 1
	}
	if econ.Inflation > 10 {
		life.Happiness -= 2
	}

	kept := life.Buffs[:0:0]
	for _, b := range life.Buffs {
		life.Happiness += b.Happiness
		life.Health += b.Health
		life.Energy += b.Energy
		life.Sanity += b.Sanity
		b.TurnsLeft--
		if b.TurnsLeft > 0 {
			kept = append(kept, b)
		}
	}
	life.Buffs = kept

	if src.Float64() < SickEventProb {
		life.Health -= 10
		life.Happiness -= 5
	}

	life.Happiness = clampStat(life.Happiness)
	life.Health = clampStat(life.Health)
	life.Energy = clampStat(life.Energy)
	life.Sanity = clampStat(life.Sanity)
	life.Intelligence = clampStat(life.Intelligence)
	return life
}

// CheckDefeat reports the first stat that has bottomed out. Health is checked
// before sanity, then intelligence, then happiness, so concurrent collapses
// resolve deterministically.
func CheckDefeat(life PersonalLife) (DefeatReason, bool) {
	switch {
	case life.Health <= 0:
		return DefeatDeath, true
	case life.Sanity <= 0:
		return DefeatBreakdown, true
	case life.Intelligence <= 0:
		return DefeatDegraded, true
	case life.Happiness <= 0:
		return DefeatDepression, true
	}
	return DefeatNone, false
}
