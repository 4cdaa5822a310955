// Command prio keeps a local task list and ranks it with a remote
// prioritization service.
package main

func main() {
	Execute()
}
