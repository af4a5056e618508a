// Package pet hatches provider-generated creatures from eggs and keeps
// each user's collection in the store. Hatching is rationed per calendar
// day.
package pet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"arcade-bot/internal/store"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

const dailyLimit = 3

var eggTypes = []string{
	"Cyclone Egg",
	"Magma Egg",
	"Blossom Egg",
	"Nightshade Egg",
	"Crystal Egg",
	"Alloy Egg",
}

// Repository is the slice of the store the service needs.
type Repository interface {
	GetEggCooldown(ctx context.Context, userID string) (*store.EggCooldown, error)
	UpsertEggCooldown(ctx context.Context, c store.EggCooldown) error
	InsertPet(ctx context.Context, p store.Pet) (string, error)
	ListPets(ctx context.Context, ownerID string) ([]store.Pet, error)
}

// ContentSource generates the creature sheet and its portrait.
type ContentSource interface {
	GenerateJSON(ctx context.Context, prompt string, out any) error
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
}

type petStats struct {
	HP  int `json:"hp"`
	MP  int `json:"mp"`
	Atk int `json:"atk"`
	Def int `json:"def"`
	Int int `json:"int"`
	Spd int `json:"spd"`
}

type petSkill struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Cost        int    `json:"cost"`
	Type        string `json:"type"`
	Power       int    `json:"power"`
}

type petTrait struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type petSheet struct {
	Rarity        string     `json:"rarity"`
	Element       string     `json:"element"`
	Species       string     `json:"species"`
	Description   string     `json:"description"`
	ImageKeywords string     `json:"imageKeywords"`
	BaseStats     petStats   `json:"baseStats"`
	Skills        []petSkill `json:"skills"`
	Traits        []petTrait `json:"traits"`
}

// HatchResult is one successful hatch, portrait included when the image
// generator cooperated.
type HatchResult struct {
	Pet     store.Pet
	Stats   petStats
	EggType string
	Image   []byte
}

type Service struct {
	repo  Repository
	src   ContentSource
	clock clockwork.Clock
}

func NewService(repo Repository, src ContentSource, clock clockwork.Clock) *Service {
	return &Service{repo: repo, src: src, clock: clock}
}

// Hatch opens one egg for the user. The daily attempt is consumed before
// generation starts, so a failed hatch still counts against the limit.
func (s *Service) Hatch(ctx context.Context, userID string) (*HatchResult, error) {
	now := s.clock.Now()

	cooldown, err := s.repo.GetEggCooldown(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		cooldown = &store.EggCooldown{UserID: userID}
	}

	count := cooldown.DailyCount
	if !sameDay(now, cooldown.LastHatch) {
		count = 0
	}
	if count >= dailyLimit {
		return nil, ErrDailyLimit
	}
	if err := s.repo.UpsertEggCooldown(ctx, store.EggCooldown{
		UserID:     userID,
		DailyCount: count + 1,
		LastHatch:  now,
	}); err != nil {
		return nil, err
	}

	eggType := eggTypes[rand.Intn(len(eggTypes))]
	sheet, err := s.generateSheet(ctx, eggType)
	if err != nil {
		return nil, err
	}

	image, err := s.src.GenerateImage(ctx, sheet.ImageKeywords)
	if err != nil {
		log.Warn().Err(err).
			Str("user_id", userID).
			Str("species", sheet.Species).
			Msg("pet portrait generation failed, hatching without one")
		image = nil
	}

	p := store.Pet{
		OwnerID:     userID,
		Name:        sheet.Species,
		Species:     sheet.Species,
		Description: sheet.Description,
		Rarity:      sheet.Rarity,
		Element:     sheet.Element,
		Stats:       mustJSON(sheet.BaseStats),
		Skills:      mustJSON(sheet.Skills),
		Traits:      mustJSON(sheet.Traits),
		ImagePrompt: sheet.ImageKeywords,
		Level:       1,
	}
	if p.ID, err = s.repo.InsertPet(ctx, p); err != nil {
		return nil, err
	}

	log.Info().
		Str("user_id", userID).
		Str("egg", eggType).
		Str("species", p.Species).
		Str("rarity", p.Rarity).
		Msg("egg hatched")

	return &HatchResult{Pet: p, Stats: sheet.BaseStats, EggType: eggType, Image: image}, nil
}

// List returns the user's collection newest-first.
func (s *Service) List(ctx context.Context, userID string) ([]store.Pet, error) {
	return s.repo.ListPets(ctx, userID)
}

func (s *Service) generateSheet(ctx context.Context, eggType string) (*petSheet, error) {
	var sheet petSheet
	if err := s.src.GenerateJSON(ctx, hatchPrompt(eggType), &sheet); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	if strings.TrimSpace(sheet.Species) == "" || strings.TrimSpace(sheet.Rarity) == "" ||
		strings.TrimSpace(sheet.ImageKeywords) == "" || sheet.BaseStats.HP <= 0 {
		return nil, fmt.Errorf("%w: incomplete creature sheet", ErrGenerationFailed)
	}
	return &sheet, nil
}

func hatchPrompt(eggType string) string {
	return fmt.Sprintf(`You are a fantasy creature designer. A "%s" is hatching.
Invent the creature inside: pick its species and element from the egg's theme,
roll a rarity (Normal 50%%, Magic 30%%, Rare 15%%, Unique 4%%, Legend 1%%),
spread its stats sensibly, give it 2-4 skills and 1-4 traits.
imageKeywords is an English prompt for drawing it (chibi, cute).

Return JSON only:
{
  "rarity": "Normal/Magic/Rare/Unique/Legend",
  "element": "Fire/Water/...",
  "species": "species name",
  "description": "2-3 sentences",
  "imageKeywords": "drawing prompt",
  "baseStats": { "hp": 100, "mp": 50, "atk": 10, "def": 10, "int": 10, "spd": 10 },
  "skills": [ { "name": "", "description": "", "cost": 0, "type": "Physical", "power": 0 } ],
  "traits": [ { "name": "", "description": "" } ]
}`, eggType)
}

// FormatHatch renders the hatch announcement for the channel.
func FormatHatch(res *HatchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The %s hatched into a %s!\n%s\n", res.EggType, res.Pet.Species, res.Pet.Description)
	fmt.Fprintf(&b, "Rarity: %s | Element: %s\n", res.Pet.Rarity, res.Pet.Element)
	fmt.Fprintf(&b, "HP %d | ATK %d | DEF %d", res.Stats.HP, res.Stats.Atk, res.Stats.Def)
	return b.String()
}

// FormatCollection renders a user's pet list.
func FormatCollection(owner string, pets []store.Pet) string {
	if len(pets) == 0 {
		return "You have no pets yet. Send /hatch to open an egg."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s's pets (%d):", owner, len(pets))
	for i, p := range pets {
		fmt.Fprintf(&b, "\n%d. %s (%s) - Lv.%d", i+1, p.Name, p.Rarity, p.Level)
	}
	return b.String()
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func mustJSON(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(raw)
}
