package sim

import "testing"

func testLife() PersonalLife {
	return PersonalLife{
		Happiness:    70,
		Health:       100,
		Energy:       40,
		Sanity:       80,
		Intelligence: 50,
	}
}

// FixedSource(0.9) suppresses the 5% sickness draw in these tests.

func TestAdvanceLifeResetsEnergy(t *testing.T) {
	life := AdvanceLife(testLife(), 50_000, testEconomy(), FixedSource(0.9))
	if life.Energy != 100 {
		t.Fatalf("energy should reset each quarter: got %v", life.Energy)
	}
}

func TestAdvanceLifeDebtPressure(t *testing.T) {
	life := AdvanceLife(testLife(), -1_000, testEconomy(), FixedSource(0.9))
	if life.Happiness != 60 {
		t.Fatalf("negative cash happiness got %v want 60", life.Happiness)
	}
	if life.Health != 98 {
		t.Fatalf("negative cash health got %v want 98", life.Health)
	}
	if life.Sanity != 77 {
		t.Fatalf("negative cash sanity got %v want 77", life.Sanity)
	}
}

func TestAdvanceLifeWealthLift(t *testing.T) {
	life := AdvanceLife(testLife(), HighWealthCash+1, testEconomy(), FixedSource(0.9))
	if life.Happiness != 72 {
		t.Fatalf("wealth happiness got %v want 72", life.Happiness)
	}
}

func TestAdvanceLifeMacroPressure(t *testing.T) {
	econ := testEconomy()
	econ.Unemployment = 15
	econ.Inflation = 12
	life := AdvanceLife(testLife(), 50_000, econ, FixedSource(0.9))
	if life.Happiness != 66 {
		t.Fatalf("macro-stressed happiness got %v want 66", life.Happiness)
	}
	if life.Sanity != 79 {
		t.Fatalf("macro-stressed sanity got %v want 79", life.Sanity)
	}
}

func TestAdvanceLifeBuffsApplyAndExpire(t *testing.T) {
	life := testLife()
	life.Buffs = []Buff{
		{ID: "vacation", Happiness: 5, TurnsLeft: 2},
		{ID: "fling", Happiness: 3, TurnsLeft: 1},
	}
	life = AdvanceLife(life, 50_000, testEconomy(), FixedSource(0.9))
	if life.Happiness != 78 {
		t.Fatalf("buffed happiness got %v want 78", life.Happiness)
	}
	if len(life.Buffs) != 1 || life.Buffs[0].ID != "vacation" {
		t.Fatalf("expired buff not dropped: %+v", life.Buffs)
	}
	if life.Buffs[0].TurnsLeft != 1 {
		t.Fatalf("buff should tick down: %+v", life.Buffs[0])
	}
}

func TestAdvanceLifeSickness(t *testing.T) {
	life := AdvanceLife(testLife(), 50_000, testEconomy(), FixedSource(0.01))
	if life.Health != 90 {
		t.Fatalf("sickness health got %v want 90", life.Health)
	}
	if life.Happiness != 65 {
		t.Fatalf("sickness happiness got %v want 65", life.Happiness)
	}
}

func TestAdvanceLifeClamps(t *testing.T) {
	life := testLife()
	life.Happiness = 3
	life = AdvanceLife(life, -1_000, testEconomy(), FixedSource(0.9))
	if life.Happiness != 0 {
		t.Fatalf("happiness should clamp at 0: got %v", life.Happiness)
	}
}

func TestCheckDefeat(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*PersonalLife)
		reason DefeatReason
	}{
		{"healthy", func(l *PersonalLife) {}, DefeatNone},
		{"death", func(l *PersonalLife) { l.Health = 0 }, DefeatDeath},
		{"breakdown", func(l *PersonalLife) { l.Sanity = 0 }, DefeatBreakdown},
		{"degradation", func(l *PersonalLife) { l.Intelligence = 0 }, DefeatDegraded},
		{"depression", func(l *PersonalLife) { l.Happiness = 0 }, DefeatDepression},
	}
	for _, tc := range tests {
		life := testLife()
		tc.mutate(&life)
		reason, defeated := CheckDefeat(life)
		if reason != tc.reason {
			t.Fatalf("%s: got %q want %q", tc.name, reason, tc.reason)
		}
		if defeated != (tc.reason != DefeatNone) {
			t.Fatalf("%s: defeated=%v", tc.name, defeated)
		}
	}
}

func TestCheckDefeatPriority(t *testing.T) {
	life := testLife()
	life.Health = 0
	life.Sanity = 0
	life.Happiness = 0
	reason, _ := CheckDefeat(life)
	if reason != DefeatDeath {
		t.Fatalf("health collapse should win: got %q", reason)
	}
}
