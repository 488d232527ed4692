package transport

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	gwruntime "github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/model"
	"github.com/goodnatureofminers/blockinsight7000-ledger/pkg/workerpool"
)

const (
	routeTip          = "/api/v1/tip"
	routeSummary      = "/api/v1/addresses/{address}/summary"
	routeTransactions = "/api/v1/addresses/{address}/transactions"
	routeInputs       = "/api/v1/addresses/{address}/inputs"
	routeOutputs      = "/api/v1/addresses/{address}/outputs"
)

var errEmptyAddress = errors.New("address is required")

// LedgerHandler serves tip and address-history queries as JSON.
type LedgerHandler struct {
	tips      TipResolver
	reader    HistoryReader
	metrics   Metrics
	logger    *zap.Logger
	marshaler gwruntime.Marshaler
	timeout   time.Duration
}

// NewLedgerHandler returns a LedgerHandler. A zero timeout leaves request
// contexts untouched.
func NewLedgerHandler(tips TipResolver, reader HistoryReader, metrics Metrics, logger *zap.Logger, timeout time.Duration) *LedgerHandler {
	return &LedgerHandler{
		tips:      tips,
		reader:    reader,
		metrics:   metrics,
		logger:    logger,
		marshaler: &gwruntime.JSONBuiltin{},
		timeout:   timeout,
	}
}

// Register mounts the ledger routes on the gateway mux.
func (h *LedgerHandler) Register(mux *gwruntime.ServeMux) error {
	routes := []struct {
		pattern string
		handle  func(ctx context.Context, address string) (any, error)
	}{
		{routeTip, h.tip},
		{routeSummary, h.summary},
		{routeTransactions, h.transactions},
		{routeInputs, h.inputs},
		{routeOutputs, h.outputs},
	}
	for _, route := range routes {
		if err := mux.HandlePath(http.MethodGet, route.pattern, h.serve(route.pattern, route.handle)); err != nil {
			return err
		}
	}
	return nil
}

func (h *LedgerHandler) serve(pattern string, handle func(ctx context.Context, address string) (any, error)) gwruntime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, params map[string]string) {
		start := time.Now()
		ctx := r.Context()
		if h.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, h.timeout)
			defer cancel()
		}

		resp, err := handle(ctx, strings.TrimSpace(params["address"]))
		code := http.StatusOK
		if err != nil {
			code = gwruntime.HTTPStatusFromCode(codeOf(err))
			if code >= http.StatusInternalServerError {
				h.logger.Error("request failed", zap.String("route", pattern), zap.Error(err))
			}
			resp = errorResponse{Code: code, Message: err.Error()}
		}
		h.write(w, code, resp)
		h.metrics.Observe(pattern, code, start)
	}
}

func (h *LedgerHandler) write(w http.ResponseWriter, code int, v any) {
	body, err := h.marshaler.Marshal(v)
	if err != nil {
		h.logger.Error("marshal response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", h.marshaler.ContentType(v))
	w.WriteHeader(code)
	if _, err := w.Write(body); err != nil {
		h.logger.Debug("write response", zap.Error(err))
	}
}

func (h *LedgerHandler) tip(ctx context.Context, _ string) (any, error) {
	tip, err := h.tips.Tip(ctx)
	if err != nil {
		return nil, err
	}
	return newTipResponse(tip), nil
}

func (h *LedgerHandler) summary(ctx context.Context, address string) (any, error) {
	if address == "" {
		return nil, errEmptyAddress
	}
	counters := []func(context.Context, string) (uint64, error){
		h.reader.SentDistinctCount,
		h.reader.ReceivedDistinctCount,
	}
	counts, err := workerpool.Map(ctx, len(counters), counters, func(ctx context.Context, count func(context.Context, string) (uint64, error)) (uint64, error) {
		return count(ctx, address)
	})
	if err != nil {
		return nil, err
	}
	return summaryResponse{Address: address, Sent: counts[0], Received: counts[1]}, nil
}

func (h *LedgerHandler) transactions(ctx context.Context, address string) (any, error) {
	if address == "" {
		return nil, errEmptyAddress
	}
	txs, err := h.reader.AllRecords(ctx, address)
	if err != nil {
		return nil, err
	}
	return newTransactionsResponse(txs), nil
}

func (h *LedgerHandler) inputs(ctx context.Context, address string) (any, error) {
	if address == "" {
		return nil, errEmptyAddress
	}
	records, err := h.reader.SentRecords(ctx, address)
	if err != nil {
		return nil, err
	}
	return newInputsResponse(records), nil
}

func (h *LedgerHandler) outputs(ctx context.Context, address string) (any, error) {
	if address == "" {
		return nil, errEmptyAddress
	}
	records, err := h.reader.ReceivedRecords(ctx, address)
	if err != nil {
		return nil, err
	}
	return newOutputsResponse(records), nil
}

func codeOf(err error) codes.Code {
	switch {
	case errors.Is(err, errEmptyAddress):
		return codes.InvalidArgument
	case errors.Is(err, model.ErrStorageTimeout), errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	case errors.Is(err, model.ErrStorageUnavailable):
		return codes.Unavailable
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	default:
		return codes.Internal
	}
}
