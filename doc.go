/*
Package custodia defines the common interfaces that tie the escrow
contract core to its host: storage, message envelopes, the per-call
environment (block height and time), and the transfer instructions the
contract hands back for execution.

The contract logic itself lives in x/escrow. The host is expected to
deliver one call at a time, provide the block context, and execute any
BankSend instructions returned from a successful delivery before
committing the state changes.

We pass context through context.Context between the host adapter,
decorators, and handlers. There exist two functions for every value of
type T we store in a Context:

  WithXYZ(Context, T) Context
  GetXYZ(Context) (val T, ok bool)
*/
package custodia
