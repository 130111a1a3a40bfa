package apiserver

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/xkmsoft/stemsearch/pkg/tcpclient"
)

type QueryParams struct {
	Query string `json:"query"`
	Page  int    `json:"page"`
}

type StemParams struct {
	Text string `json:"text"`
}

type gzipResponseWriter struct {
	io.Writer
	http.ResponseWriter
}

func (w gzipResponseWriter) Write(b []byte) (int, error) {
	return w.Writer.Write(b)
}

func MakeGzipHandler(fn http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accepts := r.Header.Get("Accept-Encoding")
		if !strings.Contains(accepts, "gzip") {
			// Client does not support gzip encoding; Returning the original handler
			fn(w, r)
			return
		}
		gz, err := gzip.NewWriterLevel(w, gzip.BestCompression)
		if err != nil {
			// Failed to set the compression level: Returning the original handler
			fn(w, r)
			return
		}
		defer func(gz *gzip.Writer) {
			if err := gz.Close(); err != nil {
				fmt.Printf("Error closing gz writer: %s\n", err.Error())
			}
		}(gz)
		// Setting content-encoding as gzip
		w.Header().Set("Content-Encoding", "gzip")
		fn(gzipResponseWriter{
			Writer:         gz,
			ResponseWriter: w,
		}, r)
	}
}

// Handler forwards API requests to the engine over the TCP protocol.
type Handler struct {
	Client tcpclient.ClientInterface
}

func NewHandler(client tcpclient.ClientInterface) *Handler {
	return &Handler{Client: client}
}

func NewRouter(h *Handler) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/api/query", MakeGzipHandler(h.HandleQuery)).Methods(http.MethodPost)
	router.HandleFunc("/api/stem", MakeGzipHandler(h.HandleStem)).Methods(http.MethodPost)
	return router
}

func (h *Handler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var params QueryParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if params.Page < 0 {
		http.Error(w, "page should not be negative", http.StatusBadRequest)
		return
	}

	clientResponse, err := h.Client.Query(params.Query, uint32(params.Page))
	if err != nil {
		http.Error(w, err.Error(), statusOf(err))
		return
	}
	if err := json.NewEncoder(w).Encode(clientResponse); err != nil {
		fmt.Printf("Error encoding query response: %s\n", err.Error())
	}
}

func (h *Handler) HandleStem(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var params StemParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	clientResponse, err := h.Client.Stem(params.Text)
	if err != nil {
		http.Error(w, err.Error(), statusOf(err))
		return
	}
	if err := json.NewEncoder(w).Encode(clientResponse); err != nil {
		fmt.Printf("Error encoding stem response: %s\n", err.Error())
	}
}

// statusOf maps engine replies to 400 and transport failures to 502.
func statusOf(err error) int {
	if errors.Is(err, tcpclient.ErrServer) {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}
