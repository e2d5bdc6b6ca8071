/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package consensus

import "fmt"

func init() {
	register(&BalanceIsNotEnoughError{})
}

type BalanceIsNotEnoughError struct {
	Balance uint64
	Fee     uint64
}

func (e *BalanceIsNotEnoughError) Code() uint32 { return CodeBalanceIsNotEnough }
func (e *BalanceIsNotEnoughError) Error() string {
	return fmt.Sprintf("Current credits balance %d is not enough to pay %d fee", e.Balance, e.Fee)
}
