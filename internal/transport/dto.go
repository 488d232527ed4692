package transport

import (
	"time"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/model"
)

type tipResponse struct {
	Epoch int64 `json:"epoch"`
	Slot  int64 `json:"slot"`
	Empty bool  `json:"empty"`
}

type summaryResponse struct {
	Address  string `json:"address"`
	Sent     uint64 `json:"sent_tx_count"`
	Received uint64 `json:"received_tx_count"`
}

type transactionResponse struct {
	ID              string    `json:"id"`
	TimeIssued      time.Time `json:"time_issued"`
	BlockTimeIssued time.Time `json:"block_time_issued"`
	BlockHash       string    `json:"block_hash"`
	TotalInput      int64     `json:"total_input"`
	TotalOutput     int64     `json:"total_output"`
	Fees            int64     `json:"fees"`
}

type recordResponse struct {
	TxID         string    `json:"tx_id"`
	Index        int32     `json:"index"`
	Address      string    `json:"address"`
	Descriptor   string    `json:"descriptor"`
	TxTimeIssued time.Time `json:"tx_time_issued"`
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newTipResponse(tip model.Tip) tipResponse {
	return tipResponse{Epoch: tip.Epoch, Slot: tip.Slot, Empty: tip.IsGenesis()}
}

func newTransactionsResponse(txs []model.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, transactionResponse(tx))
	}
	return out
}

func newInputsResponse(records []model.InputRecord) []recordResponse {
	out := make([]recordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, recordResponse(r))
	}
	return out
}

func newOutputsResponse(records []model.OutputRecord) []recordResponse {
	out := make([]recordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, recordResponse(r))
	}
	return out
}
