package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go-travel-verifier/images"
	"go-travel-verifier/models"
)

// ErrExtractionParse reports an oracle reply that was received but could
// not be turned into the expected JSON object.
var ErrExtractionParse = errors.New("failed to parse extraction output")

// ExtractionClient defines the interface to the vision oracle that reads
// uploaded document images.
type ExtractionClient interface {
	// ExtractPassport reads the front and back page images of a passport
	// and returns the printed fields plus the raw MRZ.
	ExtractPassport(frontImage, backImage []byte) (*models.ExtractedPassportFields, error)

	// ExtractTicket reads a flight ticket image and returns its fields.
	ExtractTicket(ticketImage []byte) (*models.ExtractedTicketFields, error)

	// ExtractVisaText returns the full plain text of a visa document.
	ExtractVisaText(visaDocument []byte) (string, error)
}

const passportPrompt = `Extract the following fields from these two passport page images and reply with a single JSON object and nothing else. Keys: "name", "date_of_birth" (YYYY-MM-DD), "passport_number", "expiry_date" (YYYY-MM-DD), "mrz" (both machine readable zone lines, separated by \n), "address1", "address2", "city", "state", "postalCode", "country".`

const ticketPrompt = `Extract the following fields from this flight ticket image and reply with a single JSON object and nothing else. Keys: "passengerName", "flightNumber", "departure", "arrival".`

const visaPrompt = `Return the complete visible text of this visa document as plain text. Do not summarize or reformat.`

// OpenAIExtractionClient implements ExtractionClient against an
// OpenAI-compatible chat completions endpoint.
type OpenAIExtractionClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewOpenAIExtractionClient(baseURL, apiKey, model string) *OpenAIExtractionClient {
	return &OpenAIExtractionClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type chatImageURL struct {
	URL string `json:"url"`
}

type chatContentPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *chatImageURL `json:"image_url,omitempty"`
}

type chatMessage struct {
	Role    string            `json:"role"`
	Content []chatContentPart `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func imagePart(imageData []byte) chatContentPart {
	return chatContentPart{
		Type: "image_url",
		ImageURL: &chatImageURL{
			URL: "data:image/jpeg;base64," + images.ToBase64(imageData),
		},
	}
}

func (c *OpenAIExtractionClient) complete(prompt string, imageParts ...chatContentPart) (string, error) {
	url := fmt.Sprintf("%s/v1/chat/completions", c.baseURL)

	content := append([]chatContentPart{{Type: "text", Text: prompt}}, imageParts...)
	requestBody := chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: content}},
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal extraction request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create extraction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute extraction request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("extraction failed with status %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode extraction response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("%w: response contained no choices", ErrExtractionParse)
	}
	return chatResp.Choices[0].Message.Content, nil
}

// cleanModelJSON strips the markdown fences and stray "json" prefix that
// chat models wrap around JSON output.
func cleanModelJSON(raw string) (string, error) {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, "json"))

	if !strings.HasPrefix(cleaned, "{") {
		return "", fmt.Errorf("%w: output is not a JSON object", ErrExtractionParse)
	}
	return cleaned, nil
}

func (c *OpenAIExtractionClient) ExtractPassport(frontImage, backImage []byte) (*models.ExtractedPassportFields, error) {
	raw, err := c.complete(passportPrompt, imagePart(frontImage), imagePart(backImage))
	if err != nil {
		return nil, err
	}

	cleaned, err := cleanModelJSON(raw)
	if err != nil {
		slog.Warn("Passport extraction returned unparsable output", "output", raw)
		return nil, err
	}

	var fields models.ExtractedPassportFields
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionParse, err)
	}
	return &fields, nil
}

func (c *OpenAIExtractionClient) ExtractTicket(ticketImage []byte) (*models.ExtractedTicketFields, error) {
	raw, err := c.complete(ticketPrompt, imagePart(ticketImage))
	if err != nil {
		return nil, err
	}

	cleaned, err := cleanModelJSON(raw)
	if err != nil {
		slog.Warn("Ticket extraction returned unparsable output", "output", raw)
		return nil, err
	}

	var fields models.ExtractedTicketFields
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionParse, err)
	}
	return &fields, nil
}

func (c *OpenAIExtractionClient) ExtractVisaText(visaDocument []byte) (string, error) {
	text, err := c.complete(visaPrompt, imagePart(visaDocument))
	if err != nil {
		return "", err
	}
	return text, nil
}
