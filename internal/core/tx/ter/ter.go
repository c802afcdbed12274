// Package ter defines transaction engine result codes.
//
// Codes fall in fixed ranges by class:
//
//	tel  -399..-300  local policy rejected the transaction
//	tem  -299..-200  malformed whatever the ledger state
//	tef  -199..-100  failed given the current ledger state
//	ter   -99..-1    retry later
//	tes     0        success
//	tep   100..127   applied, with a partial result
//	tec   128..      fee claimed, nothing else applied
package ter

import "fmt"

// Result represents a transaction result code
type Result int

const (
	TelLOCAL_ERROR    Result = -399
	TelBAD_PATH_COUNT Result = -398
	TelINSUF_FEE_P    Result = -397

	TemMALFORMED         Result = -299
	TemBAD_AMOUNT        Result = -298
	TemBAD_AUTH_MASTER   Result = -297
	TemBAD_EXPIRATION    Result = -296
	TemBAD_ISSUER        Result = -295
	TemBAD_OFFER         Result = -294
	TemBAD_PATH          Result = -293
	TemBAD_PATH_LOOP     Result = -292
	TemBAD_PUBLISH       Result = -291
	TemBAD_TRANSFER_RATE Result = -290
	TemBAD_SET_ID        Result = -289
	TemBAD_SEQUENCE      Result = -288
	TemBAD_SIGNATURE     Result = -287
	TemDST_IS_SRC        Result = -286
	TemDST_NEEDED        Result = -285
	TemINSUF_FEE_P       Result = -284
	TemINVALID           Result = -283
	TemREDUNDANT         Result = -282
	TemRIPPLE_EMPTY      Result = -281
	TemUNCERTAIN         Result = -280
	TemUNKNOWN           Result = -279

	TefFAILURE         Result = -199
	TefALREADY         Result = -198
	TefBAD_ADD_AUTH    Result = -197
	TefBAD_AUTH        Result = -196
	TefBAD_AUTH_MASTER Result = -195
	TefBAD_CLAIM_ID    Result = -194
	TefBAD_GEN_AUTH    Result = -193
	TefBAD_LEDGER      Result = -192
	TefCLAIMED         Result = -191
	TefCREATED         Result = -190
	TefEXCEPTION       Result = -189
	TefGEN_IN_USE      Result = -188
	TefPAST_SEQ        Result = -187

	TerRETRY           Result = -99
	TerFUNDS_SPENT     Result = -98
	TerINSUF_FEE_B     Result = -97
	TerNO_ACCOUNT      Result = -96
	TerNO_DST          Result = -95
	TerNO_LINE         Result = -94
	TerNO_LINE_NO_ZERO Result = -93
	TerPRE_SEQ         Result = -92
	TerSET_MISSING_DST Result = -91
	TerUNFUNDED        Result = -90
	TerCREATED         Result = -89
	TerNICKNAME_EXISTS Result = -88

	TesSUCCESS Result = 0

	TepPARTIAL      Result = 100
	TepPATH_DRY     Result = 101
	TepPATH_PARTIAL Result = 102

	TecCLAIM             Result = 128
	TecDIR_FULL          Result = 129
	TecFAILED_PROCESSING Result = 130
	TecEXPIRED           Result = 131
)

type info struct {
	token   string
	message string
}

var results = map[Result]info{
	TelLOCAL_ERROR:    {"telLOCAL_ERROR", "Local failure."},
	TelBAD_PATH_COUNT: {"telBAD_PATH_COUNT", "Malformed: Too many paths."},
	TelINSUF_FEE_P:    {"telINSUF_FEE_P", "Fee insufficient."},

	TemMALFORMED:         {"temMALFORMED", "Malformed transaction."},
	TemBAD_AMOUNT:        {"temBAD_AMOUNT", "Can only send positive amounts."},
	TemBAD_AUTH_MASTER:   {"temBAD_AUTH_MASTER", "Auth for unclaimed account needs correct master key."},
	TemBAD_EXPIRATION:    {"temBAD_EXPIRATION", "Malformed: Bad expiration."},
	TemBAD_ISSUER:        {"temBAD_ISSUER", "Malformed: Bad issuer."},
	TemBAD_OFFER:         {"temBAD_OFFER", "Malformed: Bad offer."},
	TemBAD_PATH:          {"temBAD_PATH", "Malformed: Bad path."},
	TemBAD_PATH_LOOP:     {"temBAD_PATH_LOOP", "Malformed: Loop in path."},
	TemBAD_PUBLISH:       {"temBAD_PUBLISH", "Malformed: Bad publish."},
	TemBAD_TRANSFER_RATE: {"temBAD_TRANSFER_RATE", "Malformed: Transfer rate must be >= 1.0"},
	TemBAD_SET_ID:        {"temBAD_SET_ID", "Malformed: Bad set id."},
	TemBAD_SEQUENCE:      {"temBAD_SEQUENCE", "Malformed: Sequence is not in the past."},
	TemBAD_SIGNATURE:     {"temBAD_SIGNATURE", "Malformed: Bad signature."},
	TemDST_IS_SRC:        {"temDST_IS_SRC", "Destination may not be source."},
	TemDST_NEEDED:        {"temDST_NEEDED", "Destination not specified."},
	TemINSUF_FEE_P:       {"temINSUF_FEE_P", "Fee not allowed."},
	TemINVALID:           {"temINVALID", "The transaction is ill-formed."},
	TemREDUNDANT:         {"temREDUNDANT", "Sends same currency to self."},
	TemRIPPLE_EMPTY:      {"temRIPPLE_EMPTY", "PathSet with no paths."},
	TemUNCERTAIN:         {"temUNCERTAIN", "In process of determining result. Never returned."},
	TemUNKNOWN:           {"temUNKNOWN", "The transactions requires logic not implemented yet."},

	TefFAILURE:         {"tefFAILURE", "Failed to apply."},
	TefALREADY:         {"tefALREADY", "The exact transaction was already in this ledger."},
	TefBAD_ADD_AUTH:    {"tefBAD_ADD_AUTH", "Not authorized to add account."},
	TefBAD_AUTH:        {"tefBAD_AUTH", "Transaction's public key is not authorized."},
	TefBAD_AUTH_MASTER: {"tefBAD_AUTH_MASTER", "Auth for unclaimed account needs correct master key."},
	TefBAD_CLAIM_ID:    {"tefBAD_CLAIM_ID", "Malformed: Bad claim id."},
	TefBAD_GEN_AUTH:    {"tefBAD_GEN_AUTH", "Not authorized to claim generator."},
	TefBAD_LEDGER:      {"tefBAD_LEDGER", "Ledger in unexpected state."},
	TefCLAIMED:         {"tefCLAIMED", "Can not claim a previously claimed account."},
	TefCREATED:         {"tefCREATED", "Can't add an already created account."},
	TefEXCEPTION:       {"tefEXCEPTION", "Unexpected program state."},
	TefGEN_IN_USE:      {"tefGEN_IN_USE", "Generator already in use."},
	TefPAST_SEQ:        {"tefPAST_SEQ", "This sequence number has already past."},

	TerRETRY:           {"terRETRY", "Retry transaction."},
	TerFUNDS_SPENT:     {"terFUNDS_SPENT", "Can't set password, password set funds already spent."},
	TerINSUF_FEE_B:     {"terINSUF_FEE_B", "Account balance can't pay fee."},
	TerNO_ACCOUNT:      {"terNO_ACCOUNT", "The source account does not exist."},
	TerNO_DST:          {"terNO_DST", "Destination does not exist. Send XRP to create it."},
	TerNO_LINE:         {"terNO_LINE", "No such line."},
	TerNO_LINE_NO_ZERO: {"terNO_LINE_NO_ZERO", "Can't zero non-existent line, destination might make it."},
	TerPRE_SEQ:         {"terPRE_SEQ", "Missing/inapplicable prior transaction."},
	TerSET_MISSING_DST: {"terSET_MISSING_DST", "Can't set password, destination missing."},
	TerUNFUNDED:        {"terUNFUNDED", "Source account had insufficient balance for transaction."},
	TerCREATED:         {"terCREATED", "Can not create a previously created account."},
	TerNICKNAME_EXISTS: {"terNICKNAME_EXISTS", "Nickname already held by another account."},

	TesSUCCESS: {"tesSUCCESS", "The transaction was applied."},

	TepPARTIAL:      {"tepPARTIAL", "Partial success."},
	TepPATH_DRY:     {"tepPATH_DRY", "Path could not send partial amount."},
	TepPATH_PARTIAL: {"tepPATH_PARTIAL", "Path could not send full amount."},

	TecCLAIM:             {"tecCLAIM", "Fee claimed. Sequence used. No action."},
	TecDIR_FULL:          {"tecDIR_FULL", "Can not add entry to full directory."},
	TecFAILED_PROCESSING: {"tecFAILED_PROCESSING", "Failed to correctly process transaction."},
	TecEXPIRED:           {"tecEXPIRED", "Expiration time is passed."},
}

// Known reports whether r is one of the defined codes.
func (r Result) Known() bool {
	_, ok := results[r]
	return ok
}

// String returns the stable token, e.g. "tesSUCCESS".
func (r Result) String() string {
	if i, ok := results[r]; ok {
		return i.token
	}
	return fmt.Sprintf("Unknown(%d)", int(r))
}

// Message returns a human-readable message for the result
func (r Result) Message() string {
	if i, ok := results[r]; ok {
		return i.message
	}
	return fmt.Sprintf("Unknown result code %d.", int(r))
}

// MustKnown returns r, panicking if it is not a defined code.
func MustKnown(r Result) Result {
	if !r.Known() {
		panic(fmt.Sprintf("ter: unmapped result code %d", int(r)))
	}
	return r
}

// FromToken looks a result up by its token.
func FromToken(token string) (Result, bool) {
	for r, i := range results {
		if i.token == token {
			return r, true
		}
	}
	return 0, false
}

// IsSuccess returns true if the result indicates success
func (r Result) IsSuccess() bool { return r == TesSUCCESS }

// IsTel returns true if this is a tel (local error) code
func (r Result) IsTel() bool { return r >= -399 && r <= -300 }

// IsTem returns true if this is a tem (malformed) code
func (r Result) IsTem() bool { return r >= -299 && r <= -200 }

// IsTef returns true if this is a tef (failure) code
func (r Result) IsTef() bool { return r >= -199 && r <= -100 }

// IsTer returns true if this is a ter (retry) code
func (r Result) IsTer() bool { return r >= -99 && r <= -1 }

// IsTep returns true if this is a tep (partial) code
func (r Result) IsTep() bool { return r >= 100 && r < 128 }

// IsTec returns true if this is a tec (fee claimed) code
func (r Result) IsTec() bool { return r >= 128 }

// IsApplied reports whether the transaction's effects are committed in full.
func (r Result) IsApplied() bool { return r.IsSuccess() || r.IsTep() }

// ShouldRetry returns true if the transaction should be retried later
func (r Result) ShouldRetry() bool { return r.IsTer() }

// Class names the result's class.
func (r Result) Class() string {
	switch {
	case r.IsTel():
		return "LocalOnly"
	case r.IsTem():
		return "Malformed"
	case r.IsTef():
		return "Failure"
	case r.IsTer():
		return "Retryable"
	case r.IsSuccess():
		return "Success"
	case r.IsTep():
		return "PartialSuccess"
	case r.IsTec():
		return "ClaimedFee"
	default:
		return "Unknown"
	}
}
