//go:build !linux

package brc

import "os"

func adviseSequential(*os.File) {}
