package router

import (
	"net/http"

	"github.com/digitaleng1/digitalbuild-sub001/internal/controller"
)

func NewRouter(c *controller.Controller) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/ping", c.Ping)
	mux.HandleFunc("POST /api/bids/new", c.NewBidRequest)
	mux.HandleFunc("GET /api/bids", c.GetBidRequests)
	mux.HandleFunc("GET /api/bids/{bidId}", c.GetBidRequest)
	mux.HandleFunc("DELETE /api/bids/{bidId}", c.DeleteBidRequest)
	mux.HandleFunc("GET /api/bids/{bidId}/history", c.BidHistory)
	mux.HandleFunc("POST /api/bids/{bidId}/response", c.SubmitResponse)
	mux.HandleFunc("PUT /api/bids/{bidId}/response", c.EditResponse)
	mux.HandleFunc("PUT /api/bids/{bidId}/accept", c.AcceptBid)
	mux.HandleFunc("PUT /api/bids/{bidId}/reject", c.RejectBid)
	mux.HandleFunc("PUT /api/bids/{bidId}/withdraw", c.WithdrawBid)
	mux.HandleFunc("POST /api/bids/{bidId}/messages", c.PostMessage)
	mux.HandleFunc("GET /api/bids/{bidId}/messages", c.GetMessages)
	mux.HandleFunc("DELETE /api/messages/{messageId}", c.DeleteMessage)
	mux.HandleFunc("POST /api/bids/{bidId}/attachments", c.UploadAttachment)
	mux.HandleFunc("GET /api/bids/{bidId}/attachments", c.GetAttachments)
	mux.HandleFunc("GET /api/projects/{projectId}/compare", c.CompareBids)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("page not found"))
	})

	cors := http.NewServeMux()
	cors.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Accept", "*/*")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
		} else {
			mux.ServeHTTP(w, r)
		}
	})

	return cors
}
