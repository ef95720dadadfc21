package testutils

import (
	"github.com/brianvoe/gofakeit/v7"

	playerservice "github.com/Black-And-White-Club/game-manager-bot/app/modules/player/application"
)

// DataGenerator produces deterministic player identities.
type DataGenerator struct {
	faker  *gofakeit.Faker
	nextID int64
}

func NewDataGenerator(seed uint64) *DataGenerator {
	return &DataGenerator{faker: gofakeit.New(seed), nextID: 1000}
}

// Identity returns a fresh identity with a unique platform id and handle.
func (g *DataGenerator) Identity() playerservice.Identity {
	g.nextID++
	return playerservice.Identity{
		ExternalID: g.nextID,
		FirstName:  g.faker.FirstName(),
		Username:   g.faker.Username(),
	}
}
