// Package deliverylog implements the append-only idempotency ledger that
// prevents re-notifying a recipient for the same logical event.
//
// The ledger is keyed by (recipient, event key), where the event key is a
// deterministic string derived from the event type and its identifying
// context fields - deliberately coarser than a message id, so repeated
// triggers for the same occurrence collide. It is consulted after
// subscription filtering and written after a send attempt has been
// dispatched; the guarantee is therefore at-most-one publish attempt per
// (recipient, event key), not at-most-one confirmed delivery.
//
// Record tolerates duplicate-key conflicts silently so concurrent publishes
// for the same key stay correct without cross-request locking.
package deliverylog
