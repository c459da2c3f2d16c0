// Command movierec 是电影推荐引擎的命令行入口。
//
//	movierec recommend --user 1 --like 603 --like 155 --strategy hybrid
//	movierec popular --count 10
//	movierec like --user 1 603
//	movierec settings --user 1 --strategy content
//	movierec validate
//
// 配置按 默认值 → movierec.yaml → MOVIEREC_* 环境变量 加载，见 config.Load。
package main
