package store

import (
	"reflect"
	"testing"

	"cardlink/internal/models"
)

func TestSetCurrent_SingleFieldMerges(t *testing.T) {
	s := New()
	s.SetCurrent(map[string]any{"name": "Ada Lovelace"})
	s.SetCurrent(map[string]any{"company": "Analytical Engines Ltd"})

	got := s.Current()
	if got.Name != "Ada Lovelace" {
		t.Errorf("Name = %q; want %q", got.Name, "Ada Lovelace")
	}
	if got.Company != "Analytical Engines Ltd" {
		t.Errorf("Company = %q; want %q", got.Company, "Analytical Engines Ltd")
	}
	// Untouched fields keep their defaults.
	if got.Font != models.DefaultCard().Font {
		t.Errorf("Font = %q; want default %q", got.Font, models.DefaultCard().Font)
	}
}

func TestSetCurrent_PartialMergeKeepsOwnerIndex(t *testing.T) {
	s := New()
	s.SetOwnerIndex(3)
	s.SetCurrent(map[string]any{"name": "Ada"})

	got := s.Current()
	if got.OwnerIndex == nil || *got.OwnerIndex != 3 {
		t.Errorf("OwnerIndex = %v; want 3", got.OwnerIndex)
	}
}

func TestSetCurrent_FullArityReplaces(t *testing.T) {
	s := New()
	s.SetOwnerIndex(2)
	s.SetCurrent(map[string]any{"name": "Ada", "phone": "555-0100"})

	tpl := models.Card{
		Font: models.FontMono, Color: models.ColorWhite, BgColor: models.ColorSlate,
		Align: models.AlignCenter, Effect: models.EffectGloss, StyleVariant: models.StyleModern,
		Name: "Template Preview",
	}
	patch := PatchFromCard(tpl)
	if len(patch) != models.CanonicalFieldCount {
		t.Fatalf("PatchFromCard produced %d keys; want %d", len(patch), models.CanonicalFieldCount)
	}
	s.SetCurrent(patch)

	got := s.Current()
	if !reflect.DeepEqual(got, tpl) {
		t.Errorf("replacement card = %+v; want %+v", got, tpl)
	}
	// Full replacement drops prior values outright, including the phone
	// that the template did not set and the owner index.
	if got.Phone != "" {
		t.Errorf("Phone survived replacement: %q", got.Phone)
	}
	if got.OwnerIndex != nil {
		t.Errorf("OwnerIndex survived replacement: %v", *got.OwnerIndex)
	}
}

func TestSetCurrent_UnknownAndNonStringKeysIgnored(t *testing.T) {
	s := New()
	s.SetCurrent(map[string]any{"name": "Ada", "ownerIndex": 4, "wat": "x"})

	got := s.Current()
	if got.Name != "Ada" {
		t.Errorf("Name = %q; want %q", got.Name, "Ada")
	}
	if got.OwnerIndex != nil {
		t.Error("ownerIndex must not be patchable")
	}
}

func TestResetCurrent(t *testing.T) {
	s := New()
	s.SetCurrent(map[string]any{"name": "Ada"})
	s.SetOwnerIndex(0)
	s.ResetCurrent()

	if !reflect.DeepEqual(s.Current(), models.DefaultCard()) {
		t.Errorf("after reset card = %+v; want default", s.Current())
	}
}

func TestToggleFlip(t *testing.T) {
	s := New()
	if s.Flipped() {
		t.Fatal("new store must show the front")
	}
	s.ToggleFlip()
	if !s.Flipped() {
		t.Error("first toggle must flip to the back")
	}
	s.ToggleFlip()
	if s.Flipped() {
		t.Error("second toggle must flip to the front")
	}
}

func TestSavedRefs(t *testing.T) {
	s := New()
	a := models.SavedCardRef{OwnerID: "u1", CardIndex: 0}
	b := models.SavedCardRef{OwnerID: "u2", CardIndex: 1}
	s.AddSavedRef(a)
	s.AddSavedRef(b)

	refs := s.SavedRefs()
	if len(refs) != 2 || refs[0] != a || refs[1] != b {
		t.Fatalf("SavedRefs = %+v", refs)
	}

	s.RemoveSavedRef(0)
	refs = s.SavedRefs()
	if len(refs) != 1 || refs[0] != b {
		t.Errorf("after remove SavedRefs = %+v; want [%+v]", refs, b)
	}

	// Out-of-range removals are ignored.
	s.RemoveSavedRef(5)
	s.RemoveSavedRef(-1)
	if len(s.SavedRefs()) != 1 {
		t.Errorf("out-of-range remove changed the list: %+v", s.SavedRefs())
	}
}

func TestSavedRefsReturnsCopy(t *testing.T) {
	s := New()
	s.AddSavedRef(models.SavedCardRef{OwnerID: "u1", CardIndex: 0})
	refs := s.SavedRefs()
	refs[0].OwnerID = "mutated"
	if s.SavedRefs()[0].OwnerID != "u1" {
		t.Error("SavedRefs must return a copy")
	}
}

func TestPlanGates(t *testing.T) {
	if !CanAddCard(models.PlanFree, 0) {
		t.Error("Free plan must allow the first card")
	}
	if CanAddCard(models.PlanFree, models.PlanFree.MaxCards()) {
		t.Error("Free plan must reject a card at the cap")
	}
	if !CanAddSavedRef(models.PlanPro, models.PlanPro.MaxSavedRefs()-1) {
		t.Error("Pro plan must allow a ref under the cap")
	}
	if CanAddSavedRef(models.PlanPro, models.PlanPro.MaxSavedRefs()) {
		t.Error("Pro plan must reject a ref at the cap")
	}
}
