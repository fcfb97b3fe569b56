/*
Package escrow implements a conditional payment contract.

> An escrow is a financial arrangement where a third party holds and regulates
> payment of the funds required for two parties involved in a given transaction.
> It helps make transactions more secure by keeping the payment in a secure
> escrow account which is only released when all of the terms of an agreement are
> met as overseen by the escrow company.

The contract manages a single escrow. The source locks funds on the
contract account when the escrow is created. Before the end conditions
pass, only the arbiter can release funds to the recipient, all at once
or in parts. Once an end condition passed the escrow counts as expired:
releases are refused and the remaining balance can be returned to the
source.

Funds are never moved by this package directly. Handlers emit transfer
instructions in their results and the host ledger executes them.
*/
package escrow
