// 指示: miu200521358
package config

import "os"

// lookupEnv は環境変数を読み取る。
func lookupEnv(key string) string {
	return os.Getenv(key)
}
