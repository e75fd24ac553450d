package monitor_test

import (
	"fmt"

	"github.com/ziarahman/keel/monitor"
)

type account struct {
	balance int
}

func ExampleMonitor_Execute() {
	m := monitor.New(account{balance: 100})

	_ = m.Execute(func(a *account) error {
		a.balance -= 30
		return nil
	})

	balance := monitor.Read(m, func(a *account) int { return a.balance })
	fmt.Println("balance:", balance)
	// Output:
	// balance: 70
}
