// Command arda runs the personalized video overlay daemon and its
// companion configuration and user-management utilities.
package main
