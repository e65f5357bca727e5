package scanner

import (
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"gearbot/internal/config"
	"gearbot/internal/gear"
	imageInternal "gearbot/internal/image"
	"gearbot/internal/match"
	"gearbot/internal/ocr"
	"gearbot/internal/ocr/ocrtest"
)

const (
	rowHeight = 30
	regionW   = 120
	regionH   = 24
)

var digitGlyphs = func() map[string]*image.Gray {
	out := make(map[string]*image.Gray)
	for i, label := range []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "%", ","} {
		out[label] = ocrtest.Glyph(10, 14, int64(200+i))
	}
	return out
}()

var iconSeed int64 = 500

func icon() *image.Gray {
	iconSeed++
	return ocrtest.Glyph(20, 14, iconSeed)
}

// fixture области одна под другой, у каждой свой набор шаблонов
type fixture struct {
	regions map[string]config.RegionConfig
	sets    map[string]*ocr.TemplateSet
	icons   map[string]map[string]*image.Gray
	rows    map[string]int
}

func newFixture() *fixture {
	f := &fixture{
		regions: make(map[string]config.RegionConfig),
		sets:    make(map[string]*ocr.TemplateSet),
		icons:   make(map[string]map[string]*image.Gray),
		rows:    make(map[string]int),
	}

	digits := ocr.NewTemplateSet("digits")
	for _, label := range []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "%", ","} {
		digits.Add(label, digitGlyphs[label])
	}
	f.sets["digits"] = digits

	patterns := map[string][]string{
		config.RegionSet:          {"ATTACK", "SPEED", "DUAL-ATTACK"},
		config.RegionRarity:       {"LEGEND", "HERO"},
		config.RegionType:         {"WEAPON", "SHOES", "RING"},
		config.RegionLevel:        {"0", "15"},
		config.RegionMainPropType: {LabelAttack, LabelSpeed, LabelLife},
	}
	for i := 1; i <= config.SubPropSlots; i++ {
		patterns[config.RegionPropType(i)] = []string{LabelAttack, LabelLife, LabelDefense, LabelSpeed, LabelCriticalRate, "unknown-icon"}
	}

	row := 0
	add := func(name, templates, kind string) {
		f.regions[name] = config.RegionConfig{
			Templates:           templates,
			CoordinatesWithSize: config.CoordinatesWithSize{X: 0, Y: row * rowHeight, Width: regionW, Height: regionH},
			Threshold:           0.8,
			Kind:                kind,
		}
		f.rows[name] = row
		row++
	}
	for _, name := range config.RequiredRegions() {
		labels, ok := patterns[name]
		if !ok {
			add(name, "digits", config.KindGlyph)
			continue
		}
		set := ocr.NewTemplateSet(name)
		f.icons[name] = make(map[string]*image.Gray)
		for _, l := range labels {
			g := icon()
			f.icons[name][l] = g
			set.Add(l, g)
		}
		f.sets[name] = set
		add(name, name, config.KindPattern)
	}
	return f
}

// render рисует кадр: для областей-значков значение - метка, для числовых - строка символов
func (f *fixture) render(values map[string]string) *image.RGBA {
	canvas := ocrtest.Canvas(regionW+10, len(f.regions)*rowHeight)
	for name, v := range values {
		at := image.Pt(5, f.rows[name]*rowHeight+5)
		if icons, ok := f.icons[name]; ok {
			ocrtest.Draw(canvas, icons[v], at)
			continue
		}
		var glyphs []image.Image
		for _, r := range v {
			glyphs = append(glyphs, digitGlyphs[string(r)])
		}
		ocrtest.Row(canvas, at, 3, glyphs...)
	}
	return canvas
}

func (f *fixture) builder(t *testing.T, policy string, diag ocr.Diagnostics) *Builder {
	t.Helper()
	b, err := NewBuilderWithSets(f.regions, f.sets, policy, match.NCC{}, diag, nil)
	if err != nil {
		t.Fatalf("NewBuilderWithSets: %v", err)
	}
	return b
}

func heroShoes() map[string]string {
	return map[string]string{
		config.RegionSet:          "SPEED",
		config.RegionRarity:       "HERO",
		config.RegionType:         "SHOES",
		config.RegionLevel:        "15",
		config.RegionScore:        "42",
		config.RegionMainPropType: LabelAttack,
		config.RegionMainProp:     "47%",
		config.RegionPropType(1):  LabelCriticalRate,
		config.RegionPropValue(1): "6%",
		config.RegionPropType(2):  LabelSpeed,
		config.RegionPropValue(2): "83",
		config.RegionPropType(3):  LabelLife,
		config.RegionPropValue(3): "1,234",
		config.RegionPropType(4):  LabelDefense,
		config.RegionPropValue(4): "5%",
	}
}

func TestBuildItemFromFrame(t *testing.T) {
	f := newFixture()
	b := f.builder(t, config.PolicyRaiseForLegend, nil)

	item, err := b.BuildItem(f.render(heroShoes()))
	if err != nil {
		t.Fatalf("BuildItem: %v", err)
	}

	want := gear.Item{
		Metadata: gear.Metadata{
			Set:      gear.SetSpeed,
			Rarity:   gear.RarityHero,
			Type:     gear.TypeShoes,
			Level:    15,
			MainProp: gear.MainAttackPercent,
			Score:    42,
		},
		Properties: gear.Properties{}.
			With(gear.AttackPercent, 47).
			With(gear.CriticalRate, 6).
			With(gear.Speed, 3).
			With(gear.FlatLife, 1234).
			With(gear.DefensePercent, 5),
	}
	if item != want {
		t.Errorf("got %+v, want %+v", item, want)
	}
}

func TestBuildItemIsDeterministic(t *testing.T) {
	f := newFixture()
	b := f.builder(t, config.PolicyRaiseForLegend, nil)
	frame := f.render(heroShoes())

	first, err := b.BuildItem(frame)
	if err != nil {
		t.Fatalf("BuildItem: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := b.BuildItem(frame)
		if err != nil {
			t.Fatalf("BuildItem: %v", err)
		}
		if again != first {
			t.Fatalf("run %d: got %+v, want %+v", i, again, first)
		}
	}
}

func TestBuildItemBlankRarityAndLevel(t *testing.T) {
	f := newFixture()
	b := f.builder(t, config.PolicyRaiseForLegend, nil)
	values := heroShoes()
	delete(values, config.RegionRarity)
	delete(values, config.RegionLevel)
	values[config.RegionSet] = "DUAL-ATTACK"

	item, err := b.BuildItem(f.render(values))
	if err != nil {
		t.Fatalf("BuildItem: %v", err)
	}
	if item.Rarity != gear.RarityOther || item.Level != 0 || item.Set != gear.SetDualAttack {
		t.Errorf("got rarity %s level %d set %s", item.Rarity, item.Level, item.Set)
	}
}

func TestBuildItemUnknownSet(t *testing.T) {
	f := newFixture()
	diag := &ocr.MemoryDiagnostics{}
	b := f.builder(t, config.PolicyRaiseForLegend, diag)
	values := heroShoes()
	delete(values, config.RegionSet)

	_, err := b.BuildItem(f.render(values))
	if !errors.Is(err, gear.ErrUnknownEnumValue) {
		t.Fatalf("got %v, want ErrUnknownEnumValue", err)
	}
	misses := diag.Misses()
	if len(misses) != 1 || misses[0].Kind != "pattern-"+config.RegionSet {
		t.Errorf("misses: got %+v", misses)
	}
}

func TestBuildItemUnknownPropertyPolicy(t *testing.T) {
	f := newFixture()
	values := heroShoes()
	values[config.RegionPropType(4)] = "unknown-icon"
	frame := f.render(values)

	item, err := f.builder(t, config.PolicyRaiseForLegend, nil).BuildItem(frame)
	if err != nil {
		t.Fatalf("hero with raise_for_legend: %v", err)
	}
	if item.Properties.Get(gear.DefensePercent) != 0 {
		t.Errorf("unknown slot should be ignored, got %+v", item.Properties)
	}

	if _, err := f.builder(t, config.PolicyRaise, nil).BuildItem(frame); !errors.Is(err, ErrUnsupportedPropertyType) {
		t.Errorf("raise: got %v, want ErrUnsupportedPropertyType", err)
	}

	values[config.RegionRarity] = "LEGEND"
	if _, err := f.builder(t, config.PolicyRaiseForLegend, nil).BuildItem(f.render(values)); !errors.Is(err, ErrUnsupportedPropertyType) {
		t.Errorf("legend with raise_for_legend: got %v, want ErrUnsupportedPropertyType", err)
	}
}

func TestBuildItemRegionOutOfBounds(t *testing.T) {
	f := newFixture()
	r := f.regions[config.RegionScore]
	r.X = 1000
	f.regions[config.RegionScore] = r
	b := f.builder(t, config.PolicyIgnore, nil)

	if _, err := b.BuildItem(f.render(heroShoes())); !errors.Is(err, imageInternal.ErrOutOfBounds) {
		t.Fatalf("got %v, want ErrOutOfBounds", err)
	}
}

func TestNewBuilderMissingSet(t *testing.T) {
	f := newFixture()
	delete(f.sets, "digits")
	_, err := NewBuilderWithSets(f.regions, f.sets, config.PolicyIgnore, match.NCC{}, nil, nil)
	if !errors.Is(err, ocr.ErrTemplateLoadFailed) {
		t.Fatalf("got %v, want ErrTemplateLoadFailed", err)
	}
}

func TestNewBuilderLoadsFromDisk(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "digits")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	for _, label := range []string{"4", "2"} {
		file, err := os.Create(filepath.Join(dir, label+".png"))
		if err != nil {
			t.Fatal(err)
		}
		if err := png.Encode(file, digitGlyphs[label]); err != nil {
			t.Fatal(err)
		}
		file.Close()
	}

	cfg := config.Default()
	cfg.TemplatesRoot = root
	cfg.Regions = map[string]config.RegionConfig{
		config.RegionScore: {
			Templates:           "digits",
			CoordinatesWithSize: config.CoordinatesWithSize{Width: regionW, Height: regionH},
			Threshold:           0.8,
			Kind:                config.KindGlyph,
		},
	}
	b, err := NewBuilder(&cfg, match.NCC{}, nil, nil)
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}

	canvas := ocrtest.Canvas(regionW, regionH)
	ocrtest.Row(canvas, image.Pt(5, 5), 3, digitGlyphs["4"], digitGlyphs["2"])
	raw, err := b.Read(canvas)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if raw[config.RegionScore] != "42" {
		t.Errorf("got %q, want %q", raw[config.RegionScore], "42")
	}

	cfg.TemplatesRoot = filepath.Join(root, "missing")
	if _, err := NewBuilder(&cfg, match.NCC{}, nil, nil); !errors.Is(err, ocr.ErrTemplateLoadFailed) {
		t.Errorf("missing root: got %v, want ErrTemplateLoadFailed", err)
	}
}
