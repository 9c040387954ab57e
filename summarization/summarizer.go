package summarization

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/sashabaranov/go-openai"

	"go-biomap/db"
	"go-biomap/types"
)

const MaxHotspots = 5

const maxSpeciesPerHotspot = 20
const maxPromptLength = 15000 // Rough character limit for prompt

// Hotspot is one top grid cell plus the species sampled from it and an
// optional generated description.
type Hotspot struct {
	Cell    types.CellResult `json:"cell"`
	Species []string         `json:"species,omitempty"`
	Summary string           `json:"summary,omitempty"`
}

// GenerateHotspotSummaries samples species for each hotspot cell and
// calls OpenAI for a short narrative. It modifies the input slice
// directly; a hotspot whose sampling or summary fails is simply left
// without one.
func GenerateHotspotSummaries(
	ctx context.Context,
	hotspots []Hotspot,
	provider *db.FirestoreProvider,
	openaiClient *openai.Client,
) error {
	log.Printf("Starting summary generation for %d hotspots...", len(hotspots))

	var wg sync.WaitGroup

	for i := range hotspots {
		wg.Add(1)
		go func(hotspotIndex int) {
			defer wg.Done()
			hotspot := &hotspots[hotspotIndex]
			key := hotspot.Cell.Key

			log.Printf("Sampling species for hotspot cell (%d,%d)", key.Row, key.Col)

			names, err := provider.SampleSpecies(ctx, hotspot.Cell.Bounds, maxSpeciesPerHotspot)
			if err != nil {
				log.Printf("Error sampling species for cell (%d,%d): %v. Skipping summary.", key.Row, key.Col, err)
				return
			}
			if len(names) == 0 {
				log.Printf("No species samples found for cell (%d,%d). Skipping summary.", key.Row, key.Col)
				return
			}
			hotspot.Species = names

			log.Printf("Requesting summary from OpenAI for cell (%d,%d)...", key.Row, key.Col)
			summary, err := callOpenAISummary(ctx, hotspot, openaiClient)
			if err != nil {
				log.Printf("Error getting summary from OpenAI for cell (%d,%d): %v. Skipping summary.", key.Row, key.Col, err)
				return
			}

			log.Printf("Received summary for cell (%d,%d).", key.Row, key.Col)
			hotspot.Summary = summary
		}(i)
	}

	wg.Wait()

	log.Println("Summary generation finished.")
	return nil
}

// callOpenAISummary sends a hotspot's species sample to OpenAI and
// requests a short description.
func callOpenAISummary(ctx context.Context, hotspot *Hotspot, client *openai.Client) (string, error) {
	speciesList := strings.Join(hotspot.Species, ", ")
	if len(speciesList) > maxPromptLength {
		log.Printf("Warning: species list for cell (%d,%d) exceeds max length (%d), truncating.",
			hotspot.Cell.Key.Row, hotspot.Cell.Key.Col, maxPromptLength)
		speciesList = speciesList[:maxPromptLength]
	}

	b := hotspot.Cell.Bounds
	prompt := fmt.Sprintf("A biodiversity survey cell spanning latitudes %.2f to %.2f and longitudes %.2f to %.2f recorded %d distinct species. A sample of the species observed there: %s. Describe this biodiversity hotspot for a general audience (2-3 sentences maximum):",
		b.MinLat, b.MaxLat, b.MinLng, b.MaxLng, hotspot.Cell.Metric, speciesList)

	resp, err := client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4oMini,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: "You are an assistant that describes biodiversity hotspots concisely.",
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			MaxTokens:   150,
			N:           1,
			Temperature: 0.5,
		},
	)

	if err != nil {
		return "", fmt.Errorf("openai chat completion error: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("openai returned empty response or choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
