package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go-travel-verifier/document"
	"go-travel-verifier/images"
	"go-travel-verifier/metrics"
	"go-travel-verifier/models"
	"go-travel-verifier/session"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const ErrorInternal = "error:internal"
const ERR_MARSHAL = "failed to marshal response message"
const ERR_SESSION_STORE = "failed to store session"
const ERR_SESSION_RETRIEVAL = "failed to retrieve session"
const ERR_TOKEN_CREATION = "failed to create session token"
const ERR_EXTRACTION = "failed to extract document fields"
const ERR_IMAGE_UPLOAD = "failed to archive document images"
const ERR_AUDIT = "failed to record audit entry"

// maxUploadBytes caps the multipart form size of document uploads.
const maxUploadBytes = 32 << 20

type ServerConfig struct {
	Host           string `json:"host"`
	Port           int    `json:"port"`
	UseTls         bool   `json:"use_tls,omitempty"`
	TlsPrivKeyPath string `json:"tls_priv_key_path,omitempty"`
	TlsCertPath    string `json:"tls_cert_path,omitempty"`
}

type ServerState struct {
	sessionStorage    SessionStorage
	tokenCreator      SessionTokenCreator
	documentValidator DocumentValidator
	extractionClient  ExtractionClient
	imageStore        ImageStore
	auditSink         AuditSink
	validate          *validator.Validate
	metrics           *metrics.Metrics
}

type SpaHandler struct {
	staticPath string
	indexPath  string
}

type Server struct {
	server *http.Server
	config ServerConfig
}

func (s *Server) ListenAndServe() error {
	if s.config.UseTls {
		slog.Info("Starting server with TLS", "host", s.config.Host, "port", s.config.Port, "cert", s.config.TlsCertPath, "key", s.config.TlsPrivKeyPath)
		return s.server.ListenAndServeTLS(s.config.TlsCertPath, s.config.TlsPrivKeyPath)
	} else {
		slog.Info("Starting server without TLS", "host", s.config.Host, "port", s.config.Port)
		return s.server.ListenAndServe()
	}
}

func (s *Server) Stop() error {
	slog.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	err := s.server.Shutdown(ctx)
	if err != nil {
		slog.Error("Error during server shutdown", "error", err)
	} else {
		slog.Info("Server shut down successfully")
	}
	return err
}

// ServeHTTP inspects the URL path to locate a file within the static dir
// on the SPA handler. If a file is found, it will be served. If not, the
// file located at the index path on the SPA handler will be served. This
// is suitable behavior for serving an SPA (single page application).
// https://github.com/gorilla/mux?tab=readme-ov-file#serving-single-page-applications
func (h SpaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	slog.Debug("SPA handler serving request", "path", r.URL.Path)
	// Join internally call path.Clean to prevent directory traversal
	path := filepath.Join(h.staticPath, r.URL.Path)
	// check whether a file exists or is a directory at the given path
	fi, err := os.Stat(path)
	if os.IsNotExist(err) || fi.IsDir() {
		// file does not exist or path is a directory, serve index.html
		slog.Debug("Serving index.html for path", "path", r.URL.Path)
		http.ServeFile(w, r, filepath.Join(h.staticPath, h.indexPath))
		return
	}

	if err != nil {
		// if we got an error (that wasn't that the file doesn't exist) stating the
		// file, return a 500 internal server error and stop
		slog.Error("Error stating file", "path", path, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// otherwise, use http.FileServer to serve the static file
	slog.Debug("Serving static file", "path", path)
	http.FileServer(http.Dir(h.staticPath)).ServeHTTP(w, r)
}

func NewServerState(
	sessionStorage SessionStorage,
	tokenCreator SessionTokenCreator,
	documentValidator DocumentValidator,
	extractionClient ExtractionClient,
	imageStore ImageStore,
	auditSink AuditSink,
	m *metrics.Metrics,
) *ServerState {
	return &ServerState{
		sessionStorage:    sessionStorage,
		tokenCreator:      tokenCreator,
		documentValidator: documentValidator,
		extractionClient:  extractionClient,
		imageStore:        imageStore,
		auditSink:         auditSink,
		validate:          validator.New(),
		metrics:           m,
	}
}

func NewServer(state *ServerState, config ServerConfig) (*Server, error) {
	slog.Info("Creating new server", "host", config.Host, "port", config.Port, "tls", config.UseTls)
	router := mux.NewRouter()

	router.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		slog.Debug("Health check request received")
		err := json.NewEncoder(w).Encode(map[string]bool{"ok": true})
		if err != nil {
			slog.Error("failed to write body to http response", "error", err)
		}
	})
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	router.HandleFunc("/api/session", func(w http.ResponseWriter, r *http.Request) {
		handleStartSession(state, w, r)
	})
	router.HandleFunc("/api/verify-passport", func(w http.ResponseWriter, r *http.Request) {
		handleVerifyPassport(state, w, r)
	})
	router.HandleFunc("/api/select-country", func(w http.ResponseWriter, r *http.Request) {
		handleSelectCountry(state, w, r)
	})
	router.HandleFunc("/api/verify-ticket", func(w http.ResponseWriter, r *http.Request) {
		handleVerifyTicket(state, w, r)
	})
	router.HandleFunc("/api/verify-visa", func(w http.ResponseWriter, r *http.Request) {
		handleVerifyVisa(state, w, r)
	})
	router.HandleFunc("/api/session/state", func(w http.ResponseWriter, r *http.Request) {
		handleSessionState(state, w, r)
	}).Methods(http.MethodGet)

	slog.Debug("Registered all API routes")

	spa := SpaHandler{staticPath: "../frontend/build", indexPath: "index.html"}
	router.PathPrefix("/").Handler(spa)

	addr := fmt.Sprintf("%v:%v", config.Host, config.Port)
	srv := &http.Server{
		Handler: router,
		Addr:    addr,
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 60 * time.Second,
		ReadTimeout:  60 * time.Second,
	}

	slog.Info("Server created successfully", "address", addr)
	return &Server{
		server: srv,
		config: config,
	}, nil
}

func handleStartSession(state *ServerState, w http.ResponseWriter, r *http.Request) {
	defer closeRequestBody(r)

	if !requirePOST(w, r) {
		return
	}

	slog.Info("Received request to start a verification session")

	sessionId := uuid.NewString()
	record := session.New(sessionId)
	if err := state.sessionStorage.StoreSession(record); err != nil {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_SESSION_STORE, err)
		return
	}

	token, err := state.tokenCreator.CreateSessionToken(sessionId)
	if err != nil {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_TOKEN_CREATION, err)
		return
	}

	response := models.StartSessionResponse{
		SessionId: sessionId,
		Token:     token,
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_MARSHAL, err)
		return
	}

	slog.Info("Verification session started", "session_id", sessionId)
}

func handleVerifyPassport(state *ServerState, w http.ResponseWriter, r *http.Request) {
	defer closeRequestBody(r)

	if !requirePOST(w, r) {
		return
	}

	record, ok := requireSession(state, w, r)
	if !ok {
		return
	}

	slog.Info("Received request to verify a passport", "session_id", record.Id)
	state.metrics.VerificationsStarted.Inc()

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondWithErr(w, http.StatusBadRequest, "invalid multipart form", "failed to parse passport form", err)
		return
	}

	submission := models.PassportSubmission{
		FullName:       r.FormValue("fullName"),
		DateOfBirth:    r.FormValue("dateOfBirth"),
		PassportNumber: strings.TrimSpace(r.FormValue("passportNumber")),
	}
	if err := state.validate.Struct(submission); err != nil {
		respondWithErr(w, http.StatusBadRequest, "invalid passport form", "passport form failed validation", err)
		return
	}

	frontImage, err := readFormImage(r, "frontImage")
	if err != nil {
		respondWithErr(w, http.StatusBadRequest, "invalid front image", "failed to read front image", err)
		return
	}
	backImage, err := readFormImage(r, "backImage")
	if err != nil {
		respondWithErr(w, http.StatusBadRequest, "invalid back image", "failed to read back image", err)
		return
	}

	slog.Debug("Extracting passport fields", "session_id", record.Id)
	extracted, err := state.extractionClient.ExtractPassport(frontImage, backImage)
	if err != nil {
		state.metrics.ExtractionErrors.Inc()
		respondWithErr(w, http.StatusBadGateway, "document could not be read", ERR_EXTRACTION, err)
		return
	}

	verdict := state.documentValidator.Validate(submission, extracted)
	slog.Debug("Passport validation completed", "session_id", record.Id, "is_valid", verdict.IsValid)

	frontURL, err := state.imageStore.Upload(frontImage, record.Id+"-front")
	if err != nil {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_IMAGE_UPLOAD, err)
		return
	}
	backURL, err := state.imageStore.Upload(backImage, record.Id+"-back")
	if err != nil {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_IMAGE_UPLOAD, err)
		return
	}

	auditRecord := models.AuditRecord{
		RecordId:       uuid.NewString(),
		Name:           submission.FullName,
		InputDOB:       submission.DateOfBirth,
		PassportNumber: submission.PassportNumber,
		IsValid:        verdict.IsValid,
		Expiry:         extracted.ExpiryDate,
		City:           extracted.City,
		State:          extracted.State,
		Country:        extracted.Country,
		Pincode:        extracted.PostalCode,
		Address1:       extracted.Address1,
		Address2:       extracted.Address2,
		FrontImage:     frontURL,
		BackImage:      backURL,
		RecordedAt:     time.Now().UTC(),
	}
	if err := state.auditSink.Record(auditRecord); err != nil {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_AUDIT, err)
		return
	}

	contact := contactDetailsFromExtraction(extracted)
	session.RecordPassportVerdict(&record, submission, verdict, contact)
	if err := state.sessionStorage.StoreSession(record); err != nil {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_SESSION_STORE, err)
		return
	}

	details := verdict.Details
	response := models.PassportVerificationResponse{
		Success:           verdict.IsValid,
		IsValid:           verdict.IsValid,
		ValidationDetails: &details,
		NextStep:          string(session.NextStep(&record)),
	}

	if verdict.IsValid {
		state.metrics.VerificationsPassed.Inc()
		response.Message = "passport verified"
		response.PassportDetails = &record.PassportDetails
		response.ContactDetails = record.ContactDetails
		if err := writeJSON(w, http.StatusOK, response); err != nil {
			respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_MARSHAL, err)
			return
		}
		slog.Info("Passport verified successfully", "session_id", record.Id)
		return
	}

	state.metrics.VerificationsFailed.Inc()
	response.Message = "passport verification failed"
	response.FailureReasons = details.Failures()
	if err := writeJSON(w, http.StatusUnprocessableEntity, response); err != nil {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_MARSHAL, err)
		return
	}
	slog.Info("Passport verification failed", "session_id", record.Id, "reasons", response.FailureReasons)
}

func handleSelectCountry(state *ServerState, w http.ResponseWriter, r *http.Request) {
	defer closeRequestBody(r)

	if !requirePOST(w, r) {
		return
	}

	record, ok := requireSession(state, w, r)
	if !ok {
		return
	}

	var request models.SelectCountryRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		respondWithErr(w, http.StatusBadRequest, "invalid request body", "failed to decode country selection", err)
		return
	}

	slog.Info("Received destination selection", "session_id", record.Id, "country", request.Country)

	nextStep, err := session.SelectCountry(&record, request.Country)
	if err != nil {
		if errors.Is(err, session.ErrStepNotAllowed) {
			writeStepNotAllowed(w, &record, err)
			return
		}
		respondWithErr(w, http.StatusBadRequest, "invalid country", "failed to select country", err)
		return
	}

	if err := state.sessionStorage.StoreSession(record); err != nil {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_SESSION_STORE, err)
		return
	}

	response := models.SelectCountryResponse{
		Success:  true,
		NextStep: string(nextStep),
	}
	if err := writeJSON(w, http.StatusOK, response); err != nil {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_MARSHAL, err)
		return
	}

	slog.Info("Destination selected", "session_id", record.Id, "next_step", nextStep)
}

func handleVerifyTicket(state *ServerState, w http.ResponseWriter, r *http.Request) {
	defer closeRequestBody(r)

	if !requirePOST(w, r) {
		return
	}

	record, ok := requireSession(state, w, r)
	if !ok {
		return
	}

	slog.Info("Received request to verify a flight ticket", "session_id", record.Id)

	if !session.CanUploadTicket(&record) {
		writeStepNotAllowed(w, &record, fmt.Errorf("%w: ticket upload not reachable", session.ErrStepNotAllowed))
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondWithErr(w, http.StatusBadRequest, "invalid multipart form", "failed to parse ticket form", err)
		return
	}

	ticketImage, err := readFormImage(r, "ticketImage")
	if err != nil {
		respondWithErr(w, http.StatusBadRequest, "invalid ticket image", "failed to read ticket image", err)
		return
	}

	fields, err := state.extractionClient.ExtractTicket(ticketImage)
	if err != nil {
		state.metrics.ExtractionErrors.Inc()
		respondWithErr(w, http.StatusBadGateway, "document could not be read", ERR_EXTRACTION, err)
		return
	}

	if strings.TrimSpace(fields.PassengerName) == "" {
		slog.Info("Ticket rejected: no passenger name found", "session_id", record.Id)
		response := models.TicketVerificationResponse{
			Success: false,
			Message: "no passenger name found on ticket",
		}
		if err := writeJSON(w, http.StatusUnprocessableEntity, response); err != nil {
			respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_MARSHAL, err)
		}
		return
	}

	if !document.NameTokensContained(record.PassportDetails.Name, fields.PassengerName) {
		slog.Info("Ticket rejected: passenger name does not match passport", "session_id", record.Id)
		response := models.TicketVerificationResponse{
			Success: false,
			Message: "passenger name does not match passport",
		}
		if err := writeJSON(w, http.StatusUnprocessableEntity, response); err != nil {
			respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_MARSHAL, err)
		}
		return
	}

	details := models.TicketDetails{
		PassengerName: fields.PassengerName,
		FlightNumber:  fields.FlightNumber,
		Departure:     fields.Departure,
		Arrival:       fields.Arrival,
	}
	if err := session.RecordTicket(&record, details); err != nil {
		writeStepNotAllowed(w, &record, err)
		return
	}
	if err := state.sessionStorage.StoreSession(record); err != nil {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_SESSION_STORE, err)
		return
	}

	state.metrics.TicketChecksPassed.Inc()
	response := models.TicketVerificationResponse{
		Success:       true,
		Message:       "ticket verified",
		TicketDetails: record.TicketDetails,
		NextStep:      string(session.NextStep(&record)),
	}
	if err := writeJSON(w, http.StatusOK, response); err != nil {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_MARSHAL, err)
		return
	}

	slog.Info("Ticket verified successfully", "session_id", record.Id)
}

func handleVerifyVisa(state *ServerState, w http.ResponseWriter, r *http.Request) {
	defer closeRequestBody(r)

	if !requirePOST(w, r) {
		return
	}

	record, ok := requireSession(state, w, r)
	if !ok {
		return
	}

	slog.Info("Received request to verify a visa", "session_id", record.Id)

	if !session.CanUploadVisa(&record) {
		writeStepNotAllowed(w, &record, fmt.Errorf("%w: visa upload not reachable", session.ErrStepNotAllowed))
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondWithErr(w, http.StatusBadRequest, "invalid multipart form", "failed to parse visa form", err)
		return
	}

	visaDocument, err := readFormDocument(r, "visaDocument")
	if err != nil {
		respondWithErr(w, http.StatusBadRequest, "invalid visa document", "failed to read visa document", err)
		return
	}

	// Visa uploads may be photos or PDFs. Only photos get normalized.
	if strings.HasPrefix(http.DetectContentType(visaDocument), "image/") {
		if normalized, err := images.Normalize(visaDocument); err == nil {
			visaDocument = normalized
		}
	}

	text, err := state.extractionClient.ExtractVisaText(visaDocument)
	if err != nil {
		state.metrics.ExtractionErrors.Inc()
		respondWithErr(w, http.StatusBadGateway, "document could not be read", ERR_EXTRACTION, err)
		return
	}

	result := document.CheckVisaText(text, record.PassportDetails.Name, record.PassportDetails.DateOfBirth)
	if !result.Passed() {
		slog.Info("Visa rejected", "session_id", record.Id, "missing_keywords", result.MissingKeywords, "name_matches", result.NameMatches, "dob_matches", result.DOBMatches)
		response := models.VisaVerificationResponse{
			Success:         false,
			Message:         visaFailureMessage(result),
			MissingKeywords: result.MissingKeywords,
		}
		if err := writeJSON(w, http.StatusUnprocessableEntity, response); err != nil {
			respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_MARSHAL, err)
		}
		return
	}

	if err := session.RecordVisa(&record); err != nil {
		writeStepNotAllowed(w, &record, err)
		return
	}
	if err := state.sessionStorage.StoreSession(record); err != nil {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_SESSION_STORE, err)
		return
	}

	state.metrics.VisaChecksPassed.Inc()
	response := models.VisaVerificationResponse{
		Success:  true,
		Message:  "visa verified",
		NextStep: string(session.NextStep(&record)),
	}
	if err := writeJSON(w, http.StatusOK, response); err != nil {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_MARSHAL, err)
		return
	}

	slog.Info("Visa verified successfully", "session_id", record.Id)
}

func handleSessionState(state *ServerState, w http.ResponseWriter, r *http.Request) {
	defer closeRequestBody(r)

	record, ok := requireSession(state, w, r)
	if !ok {
		return
	}

	response := models.SessionStateResponse{
		SessionId:        record.Id,
		PassportVerified: session.PassportVerified(&record),
		SelectedCountry:  record.SelectedCountry,
		TicketVerified:   record.TicketDetails != nil && record.TicketDetails.IsVerified,
		VisaVerified:     record.VisaDetails != nil && record.VisaDetails.IsVerified,
		NextStep:         string(session.NextStep(&record)),
	}
	if err := writeJSON(w, http.StatusOK, response); err != nil {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_MARSHAL, err)
	}
}

// -----------------------------------------------------------------------------------

// requireSession authenticates the request via its bearer token and loads
// the matching session record. Writes a 401 and returns false on failure.
func requireSession(state *ServerState, w http.ResponseWriter, r *http.Request) (models.VerificationSession, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		respondWithErr(w, http.StatusUnauthorized, "missing bearer token", "request without session token", nil)
		return models.VerificationSession{}, false
	}

	sessionId, err := state.tokenCreator.ParseSessionToken(token)
	if err != nil {
		respondWithErr(w, http.StatusUnauthorized, "invalid session token", "failed to parse session token", err)
		return models.VerificationSession{}, false
	}

	record, err := state.sessionStorage.RetrieveSession(sessionId)
	if err != nil {
		respondWithErr(w, http.StatusUnauthorized, "unknown session", ERR_SESSION_RETRIEVAL, err)
		return models.VerificationSession{}, false
	}
	return record, true
}

// writeStepNotAllowed answers a request for a stage the session has not
// earned. The client is routed to the step it may actually access.
func writeStepNotAllowed(w http.ResponseWriter, record *models.VerificationSession, e error) {
	slog.Warn("Step not allowed for session", "session_id", record.Id, "error", e)
	response := models.SelectCountryResponse{
		Success:  false,
		NextStep: string(session.NextStep(record)),
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("failed to write body to http response", "error", err)
	}
}

// readFormImage reads an uploaded image field and normalizes it to JPEG.
func readFormImage(r *http.Request, field string) ([]byte, error) {
	data, err := readFormDocument(r, field)
	if err != nil {
		return nil, err
	}
	normalized, err := images.Normalize(data)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", field, err)
	}
	return normalized, nil
}

// readFormDocument reads an uploaded file field without interpreting it.
func readFormDocument(r *http.Request, field string) ([]byte, error) {
	file, _, err := r.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("missing form file %s: %w", field, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read form file %s: %w", field, err)
	}
	return data, nil
}

func visaFailureMessage(result document.VisaCheckResult) string {
	switch {
	case len(result.MissingKeywords) > 0:
		return "visa document is missing required fields"
	case !result.NameMatches:
		return "visa name does not match passport"
	default:
		return "visa date of birth does not match passport"
	}
}

func respondWithErr(w http.ResponseWriter, code int, responseBody string, logMsg string, e error) {
	slog.Error(logMsg, "error", e, "status_code", code, "response_body", responseBody)
	w.WriteHeader(code)
	if _, err := w.Write([]byte(responseBody)); err != nil {
		slog.Error("failed to write body to http response", "error", err)
	}
}

// helpers ------------

func closeRequestBody(r *http.Request) {
	if err := r.Body.Close(); err != nil {
		slog.Error("failed to close request body", "error", err)
	}

}

func requirePOST(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		slog.Debug("Non-POST request rejected", "method", r.Method, "path", r.URL.Path)
		respondWithErr(w, http.StatusMethodNotAllowed, "method not allowed", "invalid method", nil)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	slog.Debug("Writing JSON response", "status_code", status)
	payload, err := json.Marshal(v)
	if err != nil {
		slog.Error("Failed to marshal JSON payload", "error", err)
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(payload)
	if err != nil {
		slog.Error("failed to write body to http response", "error", err)
	} else {
		slog.Debug("JSON response written successfully", "status_code", status, "payload_size", len(payload))
	}
	return nil
}
