package ledgergrp

import (
	"net/http"

	"github.com/ardanlabs/ledger/foundation/blockchain/ledger"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/ardanlabs/ledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log     *zap.SugaredLogger
	Ledger  *ledger.Ledger
	Fetcher ledger.Fetcher
	NodeID  string
	Evts    *events.Events
}

// Routes binds all the ledger routes.
func Routes(app *web.App, cfg Config) {
	lgh := Handlers{
		Log:     cfg.Log,
		Ledger:  cfg.Ledger,
		Fetcher: cfg.Fetcher,
		NodeID:  cfg.NodeID,
		WS:      websocket.Upgrader{},
		Evts:    cfg.Evts,
	}

	const version = "v1"

	app.Handle(http.MethodGet, version, "/events", lgh.Events)
	app.Handle(http.MethodGet, version, "/chain", lgh.Chain)
	app.Handle(http.MethodGet, version, "/mine", lgh.Mine)
	app.Handle(http.MethodPost, version, "/transactions/new", lgh.NewTransaction)
	app.Handle(http.MethodGet, version, "/transactions/pending", lgh.Pending)
	app.Handle(http.MethodPost, version, "/nodes/register", lgh.RegisterNodes)
	app.Handle(http.MethodGet, version, "/nodes/resolve", lgh.Resolve)
}
