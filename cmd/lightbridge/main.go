/*
Copyright © 2025 AllBinary AB
*/
package main

func main() {
	Execute()
}
