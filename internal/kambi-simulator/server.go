package simulator

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const basePath = "/offering/v2018/kambi"

// Server imita os endpoints listView e betoffer da offering API
type Server struct {
	log      *zap.Logger
	group    string
	requests *prometheus.CounterVec

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewServer cria o simulador e registra o contador de requisições em reg
func NewServer(log *zap.Logger, reg prometheus.Registerer, seed int64) *Server {
	s := &Server{
		log:   log,
		group: "UFC",
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kambi_simulator_requests_total",
			Help: "requisições atendidas pelo simulador por endpoint e status",
		}, []string{"endpoint", "status"}),
		rnd: rand.New(rand.NewSource(seed)),
	}
	reg.MustRegister(s.requests)
	return s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+basePath+"/listView/ufc_mma/ufc/all/all/matches.json", s.listView)
	mux.HandleFunc("GET "+basePath+"/betoffer/event/{file}", s.betOffer)
	return mux
}

func (s *Server) writeJSON(w http.ResponseWriter, endpoint string, status int, v any) {
	s.requests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) listView(w http.ResponseWriter, r *http.Request) {
	s.log.Debug("listView requested", zap.String("query", r.URL.RawQuery))
	s.writeJSON(w, "listView", http.StatusOK, ListView(s.group))
}

func (s *Server) betOffer(w http.ResponseWriter, r *http.Request) {
	file := r.PathValue("file")
	id, err := strconv.ParseInt(strings.TrimSuffix(file, ".json"), 10, 64)
	if err != nil || !strings.HasSuffix(file, ".json") {
		s.writeJSON(w, "betoffer", http.StatusBadRequest, map[string]string{"error": "bad event id"})
		return
	}

	f, ok := lookup(id)
	if !ok {
		s.writeJSON(w, "betoffer", http.StatusNotFound, map[string]string{"error": "event not found"})
		return
	}

	s.mu.Lock()
	resp := BetOffers(f, s.rnd)
	s.mu.Unlock()

	s.log.Debug("betoffer served", zap.Int64("event_id", id), zap.Int("offers", len(resp.BetOffers)))
	s.writeJSON(w, "betoffer", http.StatusOK, resp)
}
