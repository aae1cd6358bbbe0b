package enums

// TransactionStatus is the state of a placed transaction. Checkout only ever
// produces completed transactions today.
type TransactionStatus string

const (
	TransactionCompleted TransactionStatus = "completed"
)

func (s TransactionStatus) String() string {
	return string(s)
}
