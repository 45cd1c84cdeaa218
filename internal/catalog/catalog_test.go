package catalog

import "testing"

func TestLoad(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(c.Countries) == 0 || len(c.Businesses) == 0 || len(c.Education) == 0 {
		t.Fatalf("catalog incomplete: %d countries %d businesses %d courses",
			len(c.Countries), len(c.Businesses), len(c.Education))
	}

	us, ok := c.CountryByID("us")
	if !ok {
		t.Fatalf("us country missing")
	}
	if len(us.BaseSalaries) == 0 {
		t.Fatalf("country has no salary table")
	}
}

func TestNewBusinessFromTemplate(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	tmpl, ok := c.BusinessByID("coffee_shop")
	if !ok {
		t.Fatalf("coffee_shop template missing")
	}
	b := c.NewBusiness(tmpl, "biz-1", "My Cafe", 3)
	if b.ID != "biz-1" || b.Name != "My Cafe" || b.FoundedTurn != 3 {
		t.Fatalf("template not instantiated: %+v", b)
	}
	if b.CurrentValue != tmpl.InitialCost {
		t.Fatalf("starting value should equal the initial cost")
	}
	if b.Inventory.CurrentStock != tmpl.MaxStock {
		t.Fatalf("business should open fully stocked")
	}

	if _, ok := c.BusinessByID("nope"); ok {
		t.Fatalf("unknown template should not resolve")
	}
}
