// Package gateway is the sole component talking to the remote recognition
// and verification service. It reproduces the service's wire contract exactly
// and normalizes every failure into one error shape.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"
)

const (
	recognitionPath  = "/api/capture/test"
	verificationPath = "/api/verify"
	lotsPath         = "/api/product-batch/available"

	// Fallback notification texts used when the server omits a message.
	msgRecognitionOK     = "Processing successful!"
	msgRecognitionNoData = "Processing completed, but no valid result found."
	msgRecognitionFailed = "An error occurred during processing."
	msgVerificationOK    = "Verification successful!"
	msgLotsInvalid       = "Failed to fetch available lots or invalid data format."
	msgLotsFailed        = "An error occurred while fetching available lots."
)

// Client calls the remote service. The credential is sent as the raw
// Authorization header value with no scheme prefix — the backend expects the
// stored token exactly as-is.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a gateway client. The timeout bounds every call so a
// hung request can never leave the workflow busy indefinitely.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// envelope is the service's response wrapper. Data stays raw so each
// operation can enforce its own shape requirement.
type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type scanData struct {
	ScanResult *ScanResult `json:"scan_result"`
}

// SubmitForRecognition uploads a document image as a multipart body with a
// single part named "photo". Success requires HTTP success, an
// application-level status of 200, and a nested scan_result — anything else
// is a normal failure outcome, returned as *APIError rather than thrown.
// The returned message is the server's, suitable for operator notification.
func (c *Client) SubmitForRecognition(ctx context.Context, imageBytes []byte, mimeType, fileName string) (*ScanResult, string, error) {
	if c.token == "" {
		return nil, "", ErrNoCredential
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="photo"; filename="%s"`, fileName))
	header.Set("Content-Type", mimeType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", &APIError{Reason: fmt.Sprintf("failed to build upload: %v", err), Cause: CauseTransport}
	}
	if _, err := part.Write(imageBytes); err != nil {
		return nil, "", &APIError{Reason: fmt.Sprintf("failed to build upload: %v", err), Cause: CauseTransport}
	}
	if err := writer.Close(); err != nil {
		return nil, "", &APIError{Reason: fmt.Sprintf("failed to build upload: %v", err), Cause: CauseTransport}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+recognitionPath, &body)
	if err != nil {
		return nil, "", &APIError{Reason: err.Error(), Cause: CauseTransport}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", c.token)

	env, err := c.do(req, msgRecognitionFailed)
	if err != nil {
		return nil, "", err
	}

	if env.Status != 200 {
		return nil, "", &APIError{Reason: messageOr(env.Message, msgRecognitionNoData), Cause: CauseApplication}
	}

	var data scanData
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return nil, "", &APIError{Reason: messageOr(env.Message, msgRecognitionNoData), Cause: CauseApplication}
		}
	}
	if data.ScanResult == nil {
		// HTTP success with a missing nested result is a soft failure; a
		// partially-populated result must never escape.
		return nil, "", &APIError{Reason: messageOr(env.Message, msgRecognitionNoData), Cause: CauseApplication}
	}

	return data.ScanResult, messageOr(env.Message, msgRecognitionOK), nil
}

// SubmitVerification reports the operator's verification decision for a
// recognition result. Unlike recognition, success is determined purely by
// transport outcome — the body only contributes the message.
func (c *Client) SubmitVerification(ctx context.Context, resultID int, categoryName string) (string, error) {
	if c.token == "" {
		return "", ErrNoCredential
	}

	payload, err := json.Marshal(verifyRequest{OCRResultID: resultID, CategoryName: categoryName})
	if err != nil {
		return "", &APIError{Reason: err.Error(), Cause: CauseTransport}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+verificationPath, bytes.NewReader(payload))
	if err != nil {
		return "", &APIError{Reason: err.Error(), Cause: CauseTransport}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.token)

	env, err := c.do(req, "Verification failed.")
	if err != nil {
		return "", err
	}

	return messageOr(env.Message, msgVerificationOK), nil
}

// FetchAvailableLots retrieves the lot catalog. Success requires an
// application-level status of 200 and a list-typed payload.
func (c *Client) FetchAvailableLots(ctx context.Context) ([]LotRecord, error) {
	if c.token == "" {
		return nil, ErrNoCredential
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+lotsPath, nil)
	if err != nil {
		return nil, &APIError{Reason: err.Error(), Cause: CauseTransport}
	}
	req.Header.Set("Authorization", c.token)

	env, err := c.do(req, msgLotsFailed)
	if err != nil {
		return nil, err
	}

	if env.Status != 200 || len(env.Data) == 0 {
		return nil, &APIError{Reason: messageOr(env.Message, msgLotsInvalid), Cause: CauseApplication}
	}

	var lots []LotRecord
	if err := json.Unmarshal(env.Data, &lots); err != nil || lots == nil {
		// A null or non-list payload is not a catalog.
		return nil, &APIError{Reason: messageOr(env.Message, msgLotsInvalid), Cause: CauseApplication}
	}

	return lots, nil
}

// do executes the request and decodes the response envelope. Connection
// failures and non-2xx statuses both normalize to transport-caused errors,
// carrying the server's message when one can be recovered from the body.
func (c *Client) do(req *http.Request, fallback string) (*envelope, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Reason: err.Error(), Cause: CauseTransport}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Reason: err.Error(), Cause: CauseTransport}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env envelope
		if err := json.Unmarshal(body, &env); err == nil && env.Message != "" {
			return nil, &APIError{Reason: env.Message, Cause: CauseTransport}
		}
		return nil, &APIError{Reason: fmt.Sprintf("%s (status %d)", fallback, resp.StatusCode), Cause: CauseTransport}
	}

	var env envelope
	if len(body) > 0 {
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, &APIError{Reason: fallback, Cause: CauseApplication}
		}
	}

	return &env, nil
}

func messageOr(message, fallback string) string {
	if message != "" {
		return message
	}
	return fallback
}
