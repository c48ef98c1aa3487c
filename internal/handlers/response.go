// Package handlers provides the API Gateway handlers for the lead call bridge.
package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
)

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Error      string  `json:"error"`
	Details    *string `json:"details,omitempty"`
	Normalized *string `json:"normalized,omitempty"`
}

// baseHeaders returns the CORS headers shared by all handlers plus a fresh
// request id.
func baseHeaders(methods string) map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Headers": "Content-Type,Authorization",
		"Access-Control-Allow-Methods": methods,
		"X-Request-Id":                 uuid.New().String(),
	}
}

// requestBody returns the raw request body, decoding base64 when API Gateway
// says it is encoded. Undecodable bodies come back empty.
func requestBody(request events.APIGatewayProxyRequest) []byte {
	if !request.IsBase64Encoded {
		return []byte(request.Body)
	}
	decoded, err := base64.StdEncoding.DecodeString(request.Body)
	if err != nil {
		return nil
	}
	return decoded
}

func preflightResponse(headers map[string]string) (events.APIGatewayProxyResponse, error) {
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    headers,
	}, nil
}

func methodNotAllowed(headers map[string]string) (events.APIGatewayProxyResponse, error) {
	return textResponse(headers, http.StatusMethodNotAllowed, "Method Not Allowed")
}

// textResponse creates a plain-text response.
func textResponse(headers map[string]string, statusCode int, body string) (events.APIGatewayProxyResponse, error) {
	headers["Content-Type"] = "text/plain; charset=utf-8"
	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    headers,
		Body:       body,
	}, nil
}

// jsonResponse creates a JSON response.
func jsonResponse(headers map[string]string, statusCode int, data interface{}) (events.APIGatewayProxyResponse, error) {
	headers["Content-Type"] = "application/json"
	body, _ := json.Marshal(data)

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    headers,
		Body:       string(body),
	}, nil
}

// errorResponse creates an error response.
func errorResponse(headers map[string]string, statusCode int, body ErrorBody) (events.APIGatewayProxyResponse, error) {
	return jsonResponse(headers, statusCode, body)
}
