package gateway

import "encoding/json"

// FlexString decodes a JSON string or number into its string form. Upstream
// is inconsistent about whether ids and timestamps arrive quoted.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string { return string(f) }

// RawStockBatch is one stock batch for a slot. Only the quantity is used;
// batch detail is summed away during normalization.
type RawStockBatch struct {
	Qty int `json:"qty"`
}

// RawSlotEntry is one slot as the upstream API reports it. Key casing and
// the coloumnNumber typo are part of the wire contract. Product fields are
// absent for unassigned slots.
type RawSlotEntry struct {
	SlotID       FlexString      `json:"slotId"`
	SlotName     string          `json:"slotName"`
	RowNumber    int             `json:"rowNumber"`
	ColumnNumber int             `json:"coloumnNumber"`
	Enable       *int            `json:"enable"`
	ProductID    *FlexString     `json:"Product Id"`
	ProductName  *string         `json:"Product Name"`
	ProductCost  json.Number     `json:"Product Cost"`
	ProductImage *string         `json:"Product Image"`
	StockInfo    []RawStockBatch `json:"stockInfo"`
}

// SlotDetailsPayload is the decoded getMachineSlotDetails response.
type SlotDetailsPayload struct {
	Data []RawSlotEntry `json:"data"`
}

// RawCartItem is one line of a sale's cart.
type RawCartItem struct {
	ProductName string      `json:"productName"`
	ProductID   *FlexString `json:"productId"`
	SlotName    *string     `json:"slotName"`
	Amount      json.Number `json:"amount"`
}

// RawAmountItem is one entry of a sale's payment breakdown.
type RawAmountItem struct {
	PaymentType string `json:"Payment Type"`
}

// RawTransactionEntry is one sale as the upstream API reports it.
type RawTransactionEntry struct {
	ID              FlexString      `json:"id"`
	Status          string          `json:"status"`
	TransactionTime json.Number     `json:"transactionTime"`
	CreatedAt       FlexString      `json:"createdAt"`
	AmountReceived  json.Number     `json:"amountReceived"`
	CartData        []RawCartItem   `json:"cartData"`
	AmountData      []RawAmountItem `json:"amountData"`
}

// SalesPayload is the decoded getSalesForMachine response. Code carries the
// application-level result; anything other than CodeSuccess is a failure
// even when the HTTP call itself succeeded.
type SalesPayload struct {
	Code string                `json:"code"`
	Data []RawTransactionEntry `json:"data"`
}

// CodeSuccess is the application-level success code on the sales endpoint.
const CodeSuccess = "SUCCESS"
